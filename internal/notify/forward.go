package notify

import (
	"clientbook/internal/ports"
	"clientbook/internal/types"
	"context"
	"time"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// ForwardTo publishes every change signal as JSON to the topic arn. The mutation has already
// been committed when a signal fires, so publish failures are logged and dropped.
func ForwardTo(h *Hub, pub ports.Publisher, arn string) (unsubscribe func()) {
	return h.Subscribe(func(change types.Change) {
		payload, err := json.Marshal(change)
		if err != nil {
			log.WithError(err).Error("failed to marshal change event")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := pub.PublishRaw(ctx, arn, payload); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"op":       change.Op,
				"clientID": change.ID,
				"snsArn":   arn,
			}).Warn("failed to forward change event")
			return
		}
		log.WithFields(log.Fields{"op": change.Op, "clientID": change.ID}).Debug("change event forwarded")
	})
}
