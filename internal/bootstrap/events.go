package bootstrap

import (
	"log/slog"

	"github.com/osse101/tombola/internal/event"
	"github.com/osse101/tombola/internal/metrics"
	"github.com/osse101/tombola/internal/sse"
)

// InitializeEventSystem creates the event bus and registers the consumers
// that exist regardless of configuration: the metrics collector and the SSE
// bridge. The returned hub is not started.
func InitializeEventSystem() (*event.MemoryBus, *sse.Hub) {
	bus := event.NewMemoryBus()

	metrics.NewEventMetricsCollector().Register(bus)

	hub := sse.NewHub()
	sse.NewSubscriber(hub, bus).Subscribe()

	slog.Info(LogMsgEventSystemInitialized)
	return bus, hub
}
