package worker

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// Publisher delivers a change event to its audience.
type Publisher interface {
	Publish(event model.ChangeEvent) int
}

// EventDispatcher decouples transition requests from fan-out delivery.
// Events are sharded by order key, so events for one order are published
// in the order they were enqueued while different orders proceed in parallel.
type EventDispatcher struct {
	publisher Publisher
	workers   int
	queueSize int
	logger    *slog.Logger

	mu      sync.RWMutex
	shards  []chan model.ChangeEvent
	running bool
	wg      sync.WaitGroup

	published atomic.Int64
	dropped   atomic.Int64
}

// DispatcherStats counts events since start.
type DispatcherStats struct {
	Published int64
	Dropped   int64
}

// NewEventDispatcher constructs a dispatcher with workers shards of queueSize pending events each.
func NewEventDispatcher(publisher Publisher, workers, queueSize int, logger *slog.Logger) *EventDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &EventDispatcher{
		publisher: publisher,
		workers:   workers,
		queueSize: queueSize,
		logger:    logger.With("component", "event_dispatcher"),
	}
}

// Start launches the shard workers.
func (d *EventDispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}
	d.shards = make([]chan model.ChangeEvent, d.workers)
	for i := range d.shards {
		d.shards[i] = make(chan model.ChangeEvent, d.queueSize)
		d.wg.Add(1)
		go d.worker(d.shards[i])
	}
	d.running = true
}

// Stop rejects new events, publishes what is already queued, and waits for the workers.
func (d *EventDispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	for _, shard := range d.shards {
		close(shard)
	}
	d.mu.Unlock()

	d.wg.Wait()
	stats := d.Stats()
	d.logger.Info("event dispatcher stopped", slog.Int64("published", stats.Published), slog.Int64("dropped", stats.Dropped))
}

// Enqueue hands event to its shard without blocking. When the shard is full
// or the dispatcher is stopped the event is dropped; viewers recover by re-fetching.
func (d *EventDispatcher) Enqueue(event model.ChangeEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running {
		d.dropped.Add(1)
		d.logger.Debug("dispatcher not running, event dropped", slog.String("order", event.Order.OrderID))
		return
	}

	select {
	case d.shards[d.shardFor(event.Order.ID)] <- event:
	default:
		d.dropped.Add(1)
		d.logger.Warn("event queue full, event dropped", slog.String("order", event.Order.OrderID), slog.String("kind", string(event.Kind)))
	}
}

// Stats returns delivery counters.
func (d *EventDispatcher) Stats() DispatcherStats {
	return DispatcherStats{Published: d.published.Load(), Dropped: d.dropped.Load()}
}

func (d *EventDispatcher) shardFor(key int64) int {
	return int(uint64(key) % uint64(len(d.shards)))
}

func (d *EventDispatcher) worker(events <-chan model.ChangeEvent) {
	defer d.wg.Done()
	for event := range events {
		delivered := d.publisher.Publish(event)
		d.published.Add(1)
		d.logger.Debug("event published",
			slog.String("order", event.Order.OrderID),
			slog.String("kind", string(event.Kind)),
			slog.Int("subscribers", delivered))
	}
}
