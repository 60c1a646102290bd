package service

import "sync"

// Handler receives the payload emitted on a topic.
type Handler func(data any)

// EventBus is a minimal in-process publish/subscribe registry. Handlers run
// synchronously on the emitter's goroutine, in subscription order.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewEventBus creates an empty EventBus.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a topic.
func (b *EventBus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Emit delivers data to every handler subscribed to the topic. Topics with
// no subscribers are dropped silently.
func (b *EventBus) Emit(topic string, data any) {
	b.mu.RLock()
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(data)
	}
}
