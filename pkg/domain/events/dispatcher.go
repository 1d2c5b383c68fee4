package events

import (
	"context"
	"fmt"
	"sync"
)

// HandlerFunc handles a domain event.
type HandlerFunc func(ctx context.Context, event DomainEvent) error

type namedHandler struct {
	name    string
	handler HandlerFunc
}

// Dispatcher routes events to the handlers registered for their type.
// Handlers registered under "*" receive every event.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
	// ContinueOnError runs the remaining handlers after a failure and
	// reports all failures together.
	ContinueOnError bool
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]namedHandler)}
}

// Register adds handler for the given event types.
func (d *Dispatcher) Register(name string, handler HandlerFunc, eventTypes ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range eventTypes {
		d.handlers[t] = append(d.handlers[t], namedHandler{name: name, handler: handler})
	}
}

// RegisterWildcard adds handler for every event type.
func (d *Dispatcher) RegisterWildcard(name string, handler HandlerFunc) {
	d.Register(name, handler, "*")
}

// HandlerCount returns the number of handlers an event of the given type reaches.
func (d *Dispatcher) HandlerCount(eventType string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := len(d.handlers[eventType])
	if eventType != "*" {
		n += len(d.handlers["*"])
	}
	return n
}

// Dispatch delivers event to its handlers in registration order, wildcard
// handlers last.
func (d *Dispatcher) Dispatch(ctx context.Context, event DomainEvent) error {
	d.mu.RLock()
	targets := append([]namedHandler(nil), d.handlers[event.EventType()]...)
	targets = append(targets, d.handlers["*"]...)
	d.mu.RUnlock()

	var errs []error
	for _, nh := range targets {
		if err := nh.handler(ctx, event); err != nil {
			err = fmt.Errorf("handler %s failed for event %s: %w", nh.name, event.EventType(), err)
			if !d.ContinueOnError {
				return err
			}
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &DispatchError{Errors: errs}
	}
	return nil
}

// DispatchError collects handler failures when ContinueOnError is set.
type DispatchError struct {
	Errors []error
}

func (e *DispatchError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("multiple dispatch errors (%d)", len(e.Errors))
}

// Unwrap exposes every handler error to errors.Is and errors.As.
func (e *DispatchError) Unwrap() []error {
	return e.Errors
}
