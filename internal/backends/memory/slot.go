package memory

import (
	"context"
	"sync"
)

// Slot keeps the payload in process memory. It is the default for tests and for
// throwaway sessions; nothing survives a restart.
type Slot struct {
	mu      sync.RWMutex
	payload []byte
	writes  int

	// FailWrites makes Write return the error, to exercise storage failure paths.
	FailWrites error
	// FailReads makes Read return the error.
	FailReads error
}

func NewSlot() *Slot {
	return &Slot{}
}

// NewSlotWith returns a slot that already holds payload.
func NewSlotWith(payload []byte) *Slot {
	return &Slot{payload: clone(payload)}
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailReads != nil {
		return nil, s.FailReads
	}
	return clone(s.payload), nil
}

func (s *Slot) Write(ctx context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.payload = clone(payload)
	s.writes++
	return nil
}

// Writes reports how many successful writes the slot has seen.
func (s *Slot) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
