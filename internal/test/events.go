package test

import (
	"sync"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// EventRecorder captures enqueued and published change events.
type EventRecorder struct {
	mu     sync.Mutex
	events []model.ChangeEvent
	// Delivered is returned from Publish.
	Delivered int
}

// Enqueue records event.
func (r *EventRecorder) Enqueue(event model.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Publish records event and reports Delivered subscribers.
func (r *EventRecorder) Publish(event model.ChangeEvent) int {
	r.Enqueue(event)
	return r.Delivered
}

// Events returns a copy of the recorded events.
func (r *EventRecorder) Events() []model.ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ChangeEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events.
func (r *EventRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
