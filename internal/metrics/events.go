package metrics

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/osse101/tombola/internal/domain"
	"github.com/osse101/tombola/internal/event"
	"github.com/osse101/tombola/internal/logger"
)

// EventMetricsCollector subscribes to raffle events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all raffle events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.RaffleDisplay,
		event.RaffleWinnerRevealed,
		event.RaffleDrawAborted,
		event.RaffleReset,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	slog.Debug(LogMsgCollectorRegistered, "types", len(eventTypes))
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.RaffleDisplay:
		d, err := event.DecodePayload[domain.DisplayEvent](evt.Payload)
		if err != nil {
			return e.unexpected(ctx, evt, err)
		}
		RemainingPrizes.Set(float64(d.RemainingPrizes))
		RemainingNumbers.Set(float64(d.RemainingNumbers))
		if d.Phase == domain.PhaseExhausted {
			Exhausted.Set(1)
		} else {
			Exhausted.Set(0)
		}

	case event.RaffleWinnerRevealed:
		w, err := event.DecodePayload[domain.Winner](evt.Payload)
		if err != nil {
			return e.unexpected(ctx, evt, err)
		}
		DrawsCommitted.Inc()
		PrizesAwarded.WithLabelValues(w.Prize).Inc()

	case event.RaffleDrawAborted:
		DrawsAborted.Inc()

	case event.RaffleReset:
		r, err := event.DecodePayload[domain.RaffleReset](evt.Payload)
		if err != nil {
			return e.unexpected(ctx, evt, err)
		}
		Resets.WithLabelValues(strconv.FormatBool(r.Aborted)).Inc()
	}

	return nil
}

// unexpected logs a payload that could not be decoded; metrics never fail a publish
func (e *EventMetricsCollector) unexpected(ctx context.Context, evt event.Event, err error) error {
	logger.FromContext(ctx).Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
	return nil
}
