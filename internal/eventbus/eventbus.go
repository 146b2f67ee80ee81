package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"

	"liftdesk/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventCollectionLoaded    = domain.EventCollectionLoaded
	EventCollectionFailed    = domain.EventCollectionFailed
	EventSubmissionCompleted = domain.EventSubmissionCompleted
	EventItemDeleted         = domain.EventItemDeleted
	EventSessionChanged      = domain.EventSessionChanged
	EventSessionExpired      = domain.EventSessionExpired
	EventConfigLoaded        = domain.EventConfigLoaded
	EventConfigSaved         = domain.EventConfigSaved
	EventError               = domain.EventError
)

// Re-export domain event types
type CollectionLoadedEvent = domain.CollectionLoadedEvent
type CollectionFailedEvent = domain.CollectionFailedEvent
type SubmissionCompletedEvent = domain.SubmissionCompletedEvent
type ItemDeletedEvent = domain.ItemDeletedEvent
type SessionChangedEvent = domain.SessionChangedEvent
type SessionExpiredEvent = domain.SessionExpiredEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type ErrorEvent = domain.ErrorEvent

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
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	nextID   uint64
	events   chan DomainEvent
	quit     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
	log      logrus.FieldLogger
}

// New creates a new event bus that logs through log
func New(log logrus.FieldLogger) EventBus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	b := &bus{
		handlers: make(map[EventType][]subscription),
		events:   make(chan DomainEvent, 256),
		quit:     make(chan struct{}),
		log:      log.WithField("component", "eventbus"),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish queues an event for delivery. Events are dropped once the queue is full.
func (b *bus) Publish(event DomainEvent) {
	b.log.WithField("event", event.Type()).Debug("publishing")

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.events <- event:
	default:
		b.log.WithField("event", event.Type()).Warn("event queue full, dropping event")
	}
}

// Subscribe registers handler for eventType and returns an unsubscribe function
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

// Close stops the dispatcher and discards queued events
func (b *bus) Close() {
	b.once.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.events:
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, s := range subs {
				go b.deliver(s.handler, event)
			}

		case <-b.quit:
			for {
				select {
				case <-b.events:
				default:
					return
				}
			}
		}
	}
}

func (b *bus) deliver(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"event": event.Type(),
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("event handler panicked")
		}
	}()
	h(event)
}
