package file

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Slot keeps the payload in <dir>/<name>.json. Writes go to a temp file in the same
// directory and are renamed into place, so readers never observe a half-written slot.
type Slot struct {
	path string

	mu          sync.Mutex
	lastWritten [sha256.Size]byte
}

// NewSlot returns a file slot rooted at dir, creating the directory if needed.
func NewSlot(dir, name string) (*Slot, error) {
	if dir == "" {
		dir = "./data"
	}
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("invalid slot name %q", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Slot{path: filepath.Join(dir, name+".json")}, nil
}

func (s *Slot) Path() string { return s.path }

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Slot) Write(ctx context.Context, payload []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return err
	}
	s.lastWritten = sha256.Sum256(payload)
	return nil
}

// ownWrite reports whether payload is what this Slot wrote last.
func (s *Slot) ownWrite(payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastWritten == sha256.Sum256(payload)
}
