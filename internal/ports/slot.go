package ports

import "context"

// SlotStore is a single named storage slot holding the whole serialized client collection.
// Implementations overwrite the slot on every Write; there are no partial writes.
type SlotStore interface {
	// Read returns the slot payload.
	// MUST return (nil, nil) if the slot has never been written.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the slot payload.
	Write(ctx context.Context, payload []byte) error
}

// SlotCloser is implemented by backends that hold connections or file handles.
type SlotCloser interface {
	Close() error
}
