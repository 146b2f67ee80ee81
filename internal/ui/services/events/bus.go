package events

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// Bus is a synchronous event bus for UI services. Handlers run on the
// publisher's goroutine, which is the Bubble Tea update loop, so they may
// touch model state.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]func(interface{})
	log       logrus.FieldLogger
}

// NewBus creates a new event bus. log may be nil.
func NewBus(log logrus.FieldLogger) *Bus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bus{
		listeners: make(map[string][]func(interface{})),
		log:       log.WithField("component", "ui-bus"),
	}
}

// Subscribe registers a listener for an event type
func (b *Bus) Subscribe(eventType string, handler func(interface{})) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventType] = append(b.listeners[eventType], handler)
}

// Publish sends an event to all listeners in subscription order
func (b *Bus) Publish(event interface{}) {
	eventType := TypeOf(event)

	b.mu.RLock()
	handlers := append([]func(interface{}){}, b.listeners[eventType]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.call(eventType, handler, event)
	}
}

func (b *Bus) call(eventType string, handler func(interface{}), event interface{}) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"event": eventType,
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("ui event handler panicked")
		}
	}()
	handler(event)
}

// TypeOf returns the key an event is published under
func TypeOf(event interface{}) string {
	return fmt.Sprintf("%T", event)
}
