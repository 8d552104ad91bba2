package events

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the default channel buffer size for subscribers.
const DefaultBufferSize = 100

// Emitter publishes events. The editor session depends on this rather than
// on the router so tests can record what it emits.
type Emitter interface {
	Emit(event Event)
}

// Router fans events out from the session to every subscriber.
// Emit never blocks: a slow subscriber loses events rather than stalling an
// edit.
type Router struct {
	subscribers []chan Event
	bufferSize  int
	logger      *slog.Logger
	dropped     atomic.Int64
	mu          sync.RWMutex
	closed      bool
}

// NewRouter creates a router. A bufferSize of 0 or less selects
// DefaultBufferSize. A nil logger uses slog.Default.
func NewRouter(bufferSize int, logger *slog.Logger) *Router {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		bufferSize: bufferSize,
		logger:     logger,
	}
}

// Emit publishes an event to all subscribers. It is safe to call
// concurrently and after Close, where it does nothing.
func (r *Router) Emit(event Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	for _, ch := range r.subscribers {
		select {
		case ch <- event:
		default:
			r.dropped.Add(1)
			r.logger.Warn("event dropped: subscriber channel full",
				"event_type", event.Type(),
				"source", event.Source(),
			)
		}
	}
}

// Dropped returns how many deliveries were skipped because a subscriber was
// full.
func (r *Router) Dropped() int64 {
	return r.dropped.Load()
}

// Subscribe returns a channel with the router's default buffer size. It is
// closed when the router is closed.
func (r *Router) Subscribe() <-chan Event {
	return r.SubscribeBuffered(r.bufferSize)
}

// SubscribeBuffered returns a channel with the given buffer size. Subscribing
// to a closed router yields a closed channel.
func (r *Router) SubscribeBuffered(size int) <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Event, max(size, 0))
	if r.closed {
		close(ch)
		return ch
	}
	r.subscribers = append(r.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel. Unknown
// channels are ignored.
func (r *Router) Unsubscribe(ch <-chan Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, sub := range r.subscribers {
		if sub == ch {
			r.subscribers = append(r.subscribers[:i], r.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close closes every subscriber channel. It is safe to call more than once.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.closed = true
	for _, ch := range r.subscribers {
		close(ch)
	}
	r.subscribers = nil
}
