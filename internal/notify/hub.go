package notify

import (
	"clientbook/internal/types"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Hub fans change signals out to subscribers. Subscribers run synchronously, in subscription
// order, on the goroutine that committed the mutation. A signal carries no state: subscribers
// re-query the store.
type Hub struct {
	mu   sync.RWMutex
	next int
	subs []subscription
}

type subscription struct {
	id int
	fn func(types.Change)
}

func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers fn and returns a function that removes it. Calling the returned
// function more than once is harmless.
func (h *Hub) Subscribe(fn func(types.Change)) (unsubscribe func()) {
	h.mu.Lock()
	h.next++
	id := h.next
	h.subs = append(h.subs, subscription{id: id, fn: fn})
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, s := range h.subs {
			if s.id == id {
				h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
				return
			}
		}
	}
}

// Notify implements ports.ChangeNotifier. A panicking subscriber is logged and skipped.
func (h *Hub) Notify(change types.Change) {
	h.mu.RLock()
	subs := make([]subscription, len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	for _, s := range subs {
		deliver(s, change)
	}
}

// Len reports the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func deliver(s subscription, change types.Change) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"subscription": s.id,
				"op":           change.Op,
				"clientID":     change.ID,
			}).Errorf("change subscriber panicked: %v", r)
		}
	}()
	s.fn(change)
}
