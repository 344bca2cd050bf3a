package backends

import (
	"bytes"
	"clientbook/internal/ports"
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

var enc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
var dec, _ = zstd.NewReader(nil)

// zstdMagic starts every zstd frame; plain JSON payloads never do.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// CompressedSlot zstd-compresses payloads on the way into the wrapped slot. Reads accept
// compressed and plain payloads, so compression can be switched on for an existing slot.
type CompressedSlot struct {
	inner ports.SlotStore
}

func Compressed(inner ports.SlotStore) *CompressedSlot {
	return &CompressedSlot{inner: inner}
}

func (c *CompressedSlot) Read(ctx context.Context) ([]byte, error) {
	b, err := c.inner.Read(ctx)
	if err != nil || len(b) == 0 {
		return b, err
	}
	if !bytes.HasPrefix(b, zstdMagic) {
		return b, nil
	}
	out, err := dec.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}

func (c *CompressedSlot) Write(ctx context.Context, payload []byte) error {
	return c.inner.Write(ctx, enc.EncodeAll(payload, make([]byte, 0, len(payload))))
}

// Close closes the wrapped slot when it holds resources.
func (c *CompressedSlot) Close() error {
	if cl, ok := c.inner.(ports.SlotCloser); ok {
		return cl.Close()
	}
	return nil
}

// Unwrap returns the wrapped slot.
func (c *CompressedSlot) Unwrap() ports.SlotStore { return c.inner }
