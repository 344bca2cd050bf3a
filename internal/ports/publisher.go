package ports

import (
	"clientbook/internal/types"
	"context"
)

// Publisher pushes a raw payload to an external topic.
type Publisher interface {
	PublishRaw(ctx context.Context, arn string, payload []byte) error
}

// ChangeNotifier receives a signal after every committed mutation of the collection.
// Implementations MUST NOT call back into the store while holding their own locks.
type ChangeNotifier interface {
	Notify(change types.Change)
}
