package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"docetui/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventPackageListLoaded = domain.EventPackageListLoaded
	EventTocLoaded         = domain.EventTocLoaded
	EventTocVisibility     = domain.EventTocVisibility
	EventTocNodeToggled    = domain.EventTocNodeToggled
	EventPageOpened        = domain.EventPageOpened
	EventSearchCompleted   = domain.EventSearchCompleted
	EventSearchPaged       = domain.EventSearchPaged
	EventNavigatedHome     = domain.EventNavigatedHome
	EventError             = domain.EventError
	EventResponseError     = domain.EventResponseError
	EventSearchError       = domain.EventSearchError
	EventPackageListError  = domain.EventPackageListError
	EventConfigLoaded      = domain.EventConfigLoaded
	EventConfigSaved       = domain.EventConfigSaved
	EventAppReady          = domain.EventAppReady
)

// Re-export domain event types
type PackageListLoadedEvent = domain.PackageListLoadedEvent
type TocLoadedEvent = domain.TocLoadedEvent
type TocVisibilityEvent = domain.TocVisibilityEvent
type TocNodeToggledEvent = domain.TocNodeToggledEvent
type PageOpenedEvent = domain.PageOpenedEvent
type SearchCompletedEvent = domain.SearchCompletedEvent
type SearchPagedEvent = domain.SearchPagedEvent
type NavigatedHomeEvent = domain.NavigatedHomeEvent
type ErrorEvent = domain.ErrorEvent
type ResponseErrorEvent = domain.ResponseErrorEvent
type SearchErrorEvent = domain.SearchErrorEvent
type PackageListErrorEvent = domain.PackageListErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type AppReadyEvent = domain.AppReadyEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Paging is chatty, skip it in the log
	if event.Type() != EventSearchPaged {
		log.Printf("EventBus: Publishing event %s", event.Type())
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		// Channel full, log and drop
		log.Printf("Event bus channel full, dropping event: %v", event.Type())
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher, pending events are dropped
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			// Copy so the lock is not held while handlers run
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, s := range subs {
				// Call handler in a goroutine to avoid blocking
				go func(h EventHandler, eventType EventType) {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("Event handler panic for %s: %v\nStack: %s", eventType, r, debug.Stack())
						}
					}()
					h(event)
				}(s.handler, event.Type())
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
