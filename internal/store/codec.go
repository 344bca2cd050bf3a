package store

import (
	"bytes"
	"clientbook/internal/types"

	"github.com/goccy/go-json"
)

// Encode serializes the whole collection as a JSON array. A nil collection encodes as [].
func Encode(clients []types.ClientRecord) ([]byte, error) {
	if clients == nil {
		clients = []types.ClientRecord{}
	}
	return json.Marshal(clients)
}

// Decode parses a slot payload. An empty payload or JSON null is an empty collection.
func Decode(payload []byte) ([]types.ClientRecord, error) {
	clients := []types.ClientRecord{}
	if len(bytes.TrimSpace(payload)) == 0 {
		return clients, nil
	}
	if err := json.Unmarshal(payload, &clients); err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []types.ClientRecord{}
	}
	return clients, nil
}
