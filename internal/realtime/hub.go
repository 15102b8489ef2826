// Package realtime fans change events out to connected viewers.
//
// Hub is the server side: it routes each event to the subscriptions of its
// audience. View is the client-side merge rule a push consumer applies to the
// frames it receives; the server never holds one.
package realtime

import (
	"log/slog"
	"sync"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

const defaultBuffer = 16

// Subscription is one connected viewer. Its channel is closed when the
// viewer unsubscribes, falls behind, or the hub shuts down.
type Subscription struct {
	identity model.Identity
	events   chan model.ChangeEvent
	hub      *Hub
	closed   bool
}

// Events yields change events addressed to the subscriber.
func (s *Subscription) Events() <-chan model.ChangeEvent {
	return s.events
}

// Identity returns the subscriber.
func (s *Subscription) Identity() model.Identity {
	return s.identity
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.hub.removeLocked(s)
}

// Hub keeps one topic per identity plus an admin topic that receives every event.
type Hub struct {
	mu     sync.Mutex
	topics map[int64]map[*Subscription]struct{}
	admins map[*Subscription]struct{}
	buffer int
	closed bool
	logger *slog.Logger
}

// NewHub creates a hub whose subscriptions buffer up to buffer events.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		topics: make(map[int64]map[*Subscription]struct{}),
		admins: make(map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger.With("component", "realtime_hub"),
	}
}

// Subscribe registers a viewer. Admins join the admin topic, everyone else
// their own identity topic. Subscribing to a closed hub yields a closed subscription.
func (h *Hub) Subscribe(identity model.Identity) *Subscription {
	sub := &Subscription{
		identity: identity,
		events:   make(chan model.ChangeEvent, h.buffer),
		hub:      h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.closed = true
		close(sub.events)
		return sub
	}

	if identity.Is(model.RoleAdmin) {
		h.admins[sub] = struct{}{}
	} else {
		topic, ok := h.topics[identity.ID]
		if !ok {
			topic = make(map[*Subscription]struct{})
			h.topics[identity.ID] = topic
		}
		topic[sub] = struct{}{}
	}
	return sub
}

// Publish delivers event to every subscription in its audience and returns
// the number of deliveries. It never blocks: a subscriber whose buffer is
// full is disconnected and must re-fetch state on reconnect.
func (h *Hub) Publish(event model.ChangeEvent) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0
	}

	targets := make(map[*Subscription]struct{})
	if event.Affected.AllAdmins {
		for sub := range h.admins {
			targets[sub] = struct{}{}
		}
	}
	for _, id := range event.Affected.Identities {
		for sub := range h.topics[id] {
			targets[sub] = struct{}{}
		}
	}

	delivered := 0
	for sub := range targets {
		select {
		case sub.events <- event:
			delivered++
		default:
			h.logger.Warn("subscriber fell behind, disconnecting",
				slog.Int64("identity", sub.identity.ID),
				slog.String("order", event.Order.OrderID))
			h.removeLocked(sub)
		}
	}
	return delivered
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.admins)
	for _, topic := range h.topics {
		n += len(topic)
	}
	return n
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.admins {
		h.removeLocked(sub)
	}
	for _, topic := range h.topics {
		for sub := range topic {
			h.removeLocked(sub)
		}
	}
}

func (h *Hub) removeLocked(sub *Subscription) {
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.events)

	if sub.identity.Is(model.RoleAdmin) {
		delete(h.admins, sub)
		return
	}
	if topic, ok := h.topics[sub.identity.ID]; ok {
		delete(topic, sub)
		if len(topic) == 0 {
			delete(h.topics, sub.identity.ID)
		}
	}
}
