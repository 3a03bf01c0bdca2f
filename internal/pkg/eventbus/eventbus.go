// Package eventbus provides a synchronous in-process publish/subscribe
// bus for domain events. Publish does not return until every handler has
// run, but handler failures are logged and swallowed so side effects can
// never roll back the operation that raised the event.
package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// EventKind identifies a category of domain event.
type EventKind string

// Event is an immutable notification of a completed state change.
type Event interface {
	Kind() EventKind
}

// Handler consumes a published event. Returned errors are logged by the
// bus and never reach the publisher.
type Handler func(ctx context.Context, event Event) error

// Bus is a synchronous in-memory event bus. Subscriptions are expected
// at process startup; Publish may be called from any goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventKind][]Handler
	logger   zerolog.Logger
}

// NewBus creates an empty event bus.
func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[EventKind][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for an event kind. Multiple handlers per
// kind are permitted and all are invoked on publish.
func (b *Bus) Subscribe(kind EventKind, handler Handler) {
	if handler == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], handler)
	b.logger.Debug().Str("eventKind", string(kind)).Msg("Event handler subscribed")
}

// Publish invokes every handler registered for the event's kind, in
// subscription order. A failing or panicking handler is logged and the
// remaining handlers still run; the caller always gets nil back for
// handler-level failures.
func (b *Bus) Publish(ctx context.Context, event Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Kind()]))
	copy(handlers, b.handlers[event.Kind()])
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug().Str("eventKind", string(event.Kind())).Msg("No handlers for event")
		return
	}

	for _, handler := range handlers {
		if err := b.invoke(ctx, event, handler); err != nil {
			b.logger.Error().Err(err).Str("eventKind", string(event.Kind())).Msg("Event handler failed")
		}
	}
}

// invoke runs one handler, converting a panic into an error so a broken
// subscriber cannot take down the publishing request.
func (b *Bus) invoke(ctx context.Context, event Event, handler Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	return handler(ctx, event)
}
