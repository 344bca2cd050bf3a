// Package slottest holds the behavior every ports.SlotStore implementation must share.
package slottest

import (
	"clientbook/internal/ports"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// Run checks the SlotStore contract against a fresh, never-written slot.
func Run(t *testing.T, slot ports.SlotStore) {
	t.Helper()
	ctx := context.Background()

	got, err := slot.Read(ctx)
	require.NoError(t, err)
	require.Nil(t, got, "unwritten slot must read as nil")

	first := []byte(`[{"id":"c1","name":"Alice","phone":"0912","grade":"A"}]`)
	require.NoError(t, slot.Write(ctx, first))
	got, err = slot.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, first, got)

	second := []byte(`[]`)
	require.NoError(t, slot.Write(ctx, second))
	got, err = slot.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, second, got, "write must replace, not append")
}
