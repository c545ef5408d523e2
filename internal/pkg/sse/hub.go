package sse

import (
	"sync"
)

// Event is a named server-sent event. Data is encoded as JSON on the wire.
type Event struct {
	Name string
	Data interface{}
}

// Hub fans events out to stream subscribers, grouped by token subject.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber and returns its channel and a cleanup
// function that must be called once the stream ends.
func (h *Hub) Subscribe(subject string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[subject] == nil {
		h.subscribers[subject] = make(map[chan Event]struct{})
	}
	h.subscribers[subject][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[subject], ch)
			close(ch)
			if len(h.subscribers[subject]) == 0 {
				delete(h.subscribers, subject)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to every subscriber of subject.
func (h *Hub) Publish(subject string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[subject] {
		send(ch, event)
	}
}

// Broadcast sends an event to every subscriber.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, subs := range h.subscribers {
		for ch := range subs {
			send(ch, event)
		}
	}
}

// send never blocks; a slow subscriber misses the event.
func send(ch chan Event, event Event) {
	select {
	case ch <- event:
	default:
	}
}

func (h *Hub) SubscriberCount(subject string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[subject])
}

func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
