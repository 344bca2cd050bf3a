package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	slotKeyNameTemplate = "_clientbook_slot_%s"
)

// Slot stores the collection payload as a single Redis string value.
type Slot struct {
	cli *redis.Client
	key string
}

func NewSlot(cli *redis.Client, name string) *Slot {
	return &Slot{cli: cli, key: getSlotKey(name)}
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	out := s.cli.Get(ctx, s.key)
	if out.Err() != nil {
		if errors.Is(out.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, out.Err()
	}
	return out.Bytes()
}

func (s *Slot) Write(ctx context.Context, payload []byte) error {
	out := s.cli.Set(ctx, s.key, payload, 0)
	return out.Err()
}

// Clear removes the slot key. Used in tests only.
func (s *Slot) Clear(ctx context.Context) error {
	return s.cli.Del(ctx, s.key).Err()
}

func (s *Slot) Close() error {
	return s.cli.Close()
}

func getSlotKey(name string) string {
	return fmt.Sprintf(slotKeyNameTemplate, name)
}
