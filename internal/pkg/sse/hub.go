package sse

import (
	"sync"
)

// Event is one server-sent event addressed to a person's open streams
type Event struct {
	PersonID string
	Event    string
	Data     interface{}
}

// Hub fans events out to the streams each person has open
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	closed      bool
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a stream for personID and returns its channel and a cleanup function.
// After Close the returned channel is already closed.
func (h *Hub) Subscribe(personID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	if h.subscribers[personID] == nil {
		h.subscribers[personID] = make(map[chan Event]struct{})
	}
	h.subscribers[personID][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		// Close may have released the channel already
		if _, ok := h.subscribers[personID][ch]; !ok {
			return
		}
		delete(h.subscribers[personID], ch)
		close(ch)
		if len(h.subscribers[personID]) == 0 {
			delete(h.subscribers, personID)
		}
	}

	return ch, cleanup
}

// Publish sends an event to every open stream of personID
func (h *Hub) Publish(personID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[personID] {
		select {
		case ch <- event:
		default:
			// slow reader, drop
		}
	}
}

// SubscriberCount returns the number of open streams of personID
func (h *Hub) SubscriberCount(personID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[personID])
}

// Close ends every open stream. Used on server shutdown, since SSE
// connections never go idle on their own.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for personID, subs := range h.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(h.subscribers, personID)
	}
}
