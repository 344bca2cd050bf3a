package memory

import (
	"clientbook/internal/backends/slottest"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotContract(t *testing.T) {
	slottest.Run(t, NewSlot())
}

func TestSlotIsolatesCallerBuffers(t *testing.T) {
	ctx := context.Background()
	s := NewSlot()
	buf := []byte("[]")
	require.NoError(t, s.Write(ctx, buf))
	buf[0] = 'x'

	got, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
	got[0] = 'y'

	again, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(again))
	assert.Equal(t, 1, s.Writes())
}

func TestSlotFailures(t *testing.T) {
	ctx := context.Background()
	s := NewSlotWith([]byte("[]"))
	s.FailWrites = errors.New("full")
	assert.EqualError(t, s.Write(ctx, nil), "full")
	s.FailReads = errors.New("gone")
	_, err := s.Read(ctx)
	assert.EqualError(t, err, "gone")
}
