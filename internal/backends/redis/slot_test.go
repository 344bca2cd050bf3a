package redis

import (
	"clientbook/internal/backends/slottest"
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Requires a Redis server; set TEST_REDIS_ADDR (e.g. localhost:46379).
func TestSlotContract(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	cli := redis.NewClient(&redis.Options{Addr: addr})
	s := NewSlot(cli, "crm_clients_test")
	defer func() { _ = s.Close() }()
	require.NoError(t, s.Clear(context.Background()))
	slottest.Run(t, s)
}

func TestSlotKeyName(t *testing.T) {
	require.Equal(t, "_clientbook_slot_crm_clients", getSlotKey("crm_clients"))
}
