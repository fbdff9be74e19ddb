// api/util/event_bus.go

package util

import (
	"context"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
)

const (
	EventAccessDecided = "access.decided"
	EventCircuitOpened = "circuit.opened"
	EventCircuitClosed = "circuit.closed"
	EventTaskProcessed = "task.processed"
)

// Event represents an event in the system
type Event struct {
	Type    string
	Payload interface{}
}

// EventHandler is a function that handles an event
type EventHandler func(context.Context, Event) error

// Publisher is the publishing half of the bus, used by services.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{})
}

// EventBus manages event subscriptions and publications
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	errorChan   chan error
	wg          conc.WaitGroup
	closed      bool
}

var _ Publisher = (*EventBus)(nil)

// NewEventBus creates a new EventBus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]EventHandler),
		errorChan:   make(chan error, 100),
	}
}

// Subscribe adds a new subscriber for a specific event type
func (eb *EventBus) Subscribe(eventType string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[eventType] = append(eb.subscribers[eventType], handler)
}

// Publish runs every subscriber of eventType on its own goroutine. Handlers
// get a context detached from the request so they outlive it. A nil bus
// drops the event.
func (eb *EventBus) Publish(ctx context.Context, eventType string, payload interface{}) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	if eb.closed {
		return
	}
	handlers := eb.subscribers[eventType]
	if len(handlers) == 0 {
		return
	}

	event := Event{
		Type:    eventType,
		Payload: payload,
	}
	handlerCtx := context.WithoutCancel(ctx)

	for _, handler := range handlers {
		h := handler
		eb.wg.Go(func() {
			var err error
			var pc panics.Catcher
			pc.Try(func() { err = h(handlerCtx, event) })
			if r := pc.Recovered(); r != nil {
				err = r.AsError()
			}
			if err == nil {
				return
			}
			select {
			case eb.errorChan <- fmt.Errorf("event handler error (%s): %w", eventType, err):
			default:
				logger.Error("Error channel full, logging event handler error",
					zap.Error(err),
					zap.String("eventType", eventType))
			}
		})
	}
}

// Start begins processing events and handling errors
func (eb *EventBus) Start(ctx context.Context) {
	go eb.processErrors(ctx)
}

func (eb *EventBus) processErrors(ctx context.Context) {
	for {
		select {
		case err := <-eb.errorChan:
			logger.Error("Event handler error", zap.Error(err))
		case <-ctx.Done():
			return
		}
	}
}

// Close stops accepting events and waits for running handlers.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	eb.closed = true
	eb.mu.Unlock()
	eb.wg.Wait()
}
