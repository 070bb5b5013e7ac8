package events

import (
	"fmt"
	"sync"
)

// Bus delivers UI service events synchronously, on the goroutine that
// publishes them. The UI services all run inside Update, so handlers may
// touch model state.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string]map[int]func(interface{})
	nextID    int
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string]map[int]func(interface{})),
	}
}

// Subscribe registers a listener for an event type name, e.g.
// "navigation.CursorMovedEvent". The returned func removes it.
func (b *Bus) Subscribe(eventType string, handler func(interface{})) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listeners[eventType] == nil {
		b.listeners[eventType] = make(map[int]func(interface{}))
	}
	id := b.nextID
	b.nextID++
	b.listeners[eventType][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners[eventType], id)
	}
}

// Publish sends an event to all listeners of its type
func (b *Bus) Publish(event interface{}) {
	b.mu.RLock()
	handlers := make([]func(interface{}), 0, len(b.listeners[TypeOf(event)]))
	for _, h := range b.listeners[TypeOf(event)] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// TypeOf returns the name events are subscribed by
func TypeOf(event interface{}) string {
	return fmt.Sprintf("%T", event)
}
