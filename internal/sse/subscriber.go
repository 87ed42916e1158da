package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/tombola/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// forwardedTypes are the bus events streamed to displays
var forwardedTypes = []event.Type{
	event.RaffleDisplay,
	event.RaffleWinnerRevealed,
	event.RaffleDrawAborted,
	event.RaffleReset,
}

// Subscribe registers handlers for all relevant event types
func (s *Subscriber) Subscribe() {
	names := make([]string, 0, len(forwardedTypes))
	for _, typ := range forwardedTypes {
		s.bus.Subscribe(typ, s.forward)
		names = append(names, string(typ))
	}
	slog.Info(LogMsgSubscribed, "types", names)
}

// forward rebroadcasts the payload unchanged under the bus event type
func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), evt.Payload)
	return nil
}
