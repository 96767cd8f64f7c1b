// Package eventbus provides the synchronous EventBus implementation.
package eventbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
)

// ErrClosed is returned by Close when the bus has already been closed.
var ErrClosed = errors.New("event bus already closed")

// wildcard is the internal key for SubscribeAll handlers.
const wildcard domain.EventType = "*"

// SyncEventBus delivers events to handlers synchronously, on the publisher's goroutine,
// in subscription order. Type-specific handlers run before wildcard handlers.
//
// Running handlers on the publisher's goroutine is what keeps layout notifications
// on the host's UI goroutine, so a resize is fully applied before Publish returns.
//
// Thread-safety: safe for concurrent use. Handlers may subscribe, unsubscribe or
// publish from inside a handler; the subscriber list is copied before delivery.
type SyncEventBus struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[domain.EventType][]subscription
	owners   map[domain.SubscriptionID]domain.EventType
	nextID   uint64
	closed   bool
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncEventBus creates a new synchronous event bus.
// A nil logger disables logging.
func NewSyncEventBus(logger *slog.Logger) *SyncEventBus {
	return &SyncEventBus{
		logger:   logger,
		handlers: make(map[domain.EventType][]subscription),
		owners:   make(map[domain.SubscriptionID]domain.EventType),
	}
}

// Publish delivers event to every matching subscriber.
// Publishing to a closed bus or publishing a nil event does nothing.
//
// Panics in handlers are recovered and logged, and do not stop other handlers
// from being called.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	typed := bus.handlers[event.Type()]
	all := bus.handlers[wildcard]
	targets := make([]subscription, 0, len(typed)+len(all))
	targets = append(targets, typed...)
	targets = append(targets, all...)
	bus.mu.RUnlock()

	for _, sub := range targets {
		bus.deliver(sub, event)
	}
}

func (bus *SyncEventBus) deliver(sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && bus.logger != nil {
			bus.logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("event_type", string(event.Type())),
				slog.String("subscription", string(sub.id)))
		}
	}()

	if bus.logger != nil {
		bus.logger.Debug("event delivered",
			slog.String("event_type", string(event.Type())),
			slog.String("subscription", string(sub.id)))
	}
	sub.handler(event)
}

// Subscribe registers a handler for events of the specified type.
// Subscribing to a closed bus returns an empty ID and the handler is never called.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(eventType, handler, "sub")
}

// SubscribeAll registers a handler that receives all events regardless of type.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(wildcard, handler, "sub-all")
}

func (bus *SyncEventBus) add(eventType domain.EventType, handler domain.EventHandler, prefix string) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		if bus.logger != nil {
			bus.logger.Warn("subscribe on closed event bus", slog.String("event_type", string(eventType)))
		}
		return ""
	}

	bus.nextID++
	id := domain.SubscriptionID(fmt.Sprintf("%s-%d", prefix, bus.nextID))

	// Append to a fresh slice so copies taken by in-flight Publish calls stay valid.
	current := bus.handlers[eventType]
	next := make([]subscription, len(current), len(current)+1)
	copy(next, current)
	bus.handlers[eventType] = append(next, subscription{id: id, handler: handler})
	bus.owners[id] = eventType

	return id
}

// Unsubscribe removes a previously registered event handler.
// If the subscription ID is invalid or already unsubscribed, this is a no-op.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	eventType, ok := bus.owners[id]
	if !ok {
		return
	}
	delete(bus.owners, id)

	current := bus.handlers[eventType]
	next := make([]subscription, 0, len(current))
	for _, sub := range current {
		if sub.id != id {
			next = append(next, sub)
		}
	}

	if len(next) == 0 {
		delete(bus.handlers, eventType)
		return
	}
	bus.handlers[eventType] = next
}

// HasSubscribers returns true if an event of the given type would reach any handler.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	return len(bus.handlers[eventType]) > 0 || len(bus.handlers[wildcard]) > 0
}

// Close shuts down the event bus and drops all subscriptions.
// Returns ErrClosed if already closed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return ErrClosed
	}

	bus.closed = true
	bus.handlers = make(map[domain.EventType][]subscription)
	bus.owners = make(map[domain.SubscriptionID]domain.EventType)

	return nil
}

// SubscriberCount returns the number of active subscriptions, wildcard ones included.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.owners)
}

// Verify that SyncEventBus implements the EventBus interface
var _ ports.EventBus = (*SyncEventBus)(nil)
