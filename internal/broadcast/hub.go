// Package broadcast fans published board frames out to readers.
package broadcast

import (
	"sync"

	"github.com/tinytelemetry/flapboard/internal/model"
)

// Hub keeps the most recent frame and delivers every new one to all
// subscribers. Delivery never blocks the publisher: a subscriber that has
// not consumed its previous frame gets it replaced by the newer one.
type Hub struct {
	mu     sync.Mutex
	latest model.Frame
	has    bool
	subs   map[chan model.Frame]struct{}
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{subs: make(map[chan model.Frame]struct{})}
}

// Publish records frame as latest and forwards it to subscribers.
func (h *Hub) Publish(frame model.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = frame
	h.has = true
	for ch := range h.subs {
		offer(ch, frame)
	}
}

// Latest returns the last published frame, if any.
func (h *Hub) Latest() (model.Frame, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.has
}

// Subscribe registers a new reader. The latest frame, when present, is
// delivered immediately. Call the returned func to unsubscribe; it closes
// the channel.
func (h *Hub) Subscribe() (<-chan model.Frame, func()) {
	ch := make(chan model.Frame, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	if h.has {
		ch <- h.latest
	}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			close(ch)
			h.mu.Unlock()
		})
	}
}

// Subscribers returns the number of registered readers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// offer replaces any undelivered frame with f. Callers hold h.mu, so the
// channel has a single writer.
func offer(ch chan model.Frame, f model.Frame) {
	select {
	case ch <- f:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- f
}
