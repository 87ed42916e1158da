package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/osse101/tombola/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Raffle event types
const (
	RaffleDisplay        Type = domain.EventTypeRaffleDisplay
	RaffleWinnerRevealed Type = domain.EventTypeRaffleWinnerRevealed
	RaffleDrawAborted    Type = domain.EventTypeRaffleDrawAborted
	RaffleReset          Type = domain.EventTypeRaffleReset
)

// NewDisplayEvent wraps a display update emitted on every tick or transition
func NewDisplayEvent(display domain.DisplayEvent) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RaffleDisplay,
		Payload: display,
	}
}

// NewWinnerRevealedEvent wraps a freshly committed winner
func NewWinnerRevealedEvent(winner domain.Winner) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RaffleWinnerRevealed,
		Payload: winner,
	}
}

// NewDrawAbortedEvent wraps a draw discarded on pool inconsistency
func NewDrawAbortedEvent(aborted domain.DrawAborted) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RaffleDrawAborted,
		Payload: aborted,
	}
}

// NewResetEvent wraps a completed reset
func NewResetEvent(reset domain.RaffleReset) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RaffleReset,
		Payload: reset,
	}
}

// DecodePayload returns the payload as T. In-process payloads are asserted
// directly; anything else goes through a JSON round-trip.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus.
// Handlers run synchronously on the publishing goroutine, in subscription order.
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s (%d) for %s: %w", ErrContextHandlers, len(errs), event.Type, errors.Join(errs...))
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
