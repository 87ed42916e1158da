package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/tombola/internal/discord"
	"github.com/osse101/tombola/internal/draw"
	"github.com/osse101/tombola/internal/server"
	"github.com/osse101/tombola/internal/sse"
	"github.com/osse101/tombola/internal/telemetry"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server    *server.Server
	Sequencer *draw.Sequencer
	Hub       *sse.Hub
	Announcer *discord.Announcer
	Tracer    telemetry.ShutdownFunc
}

// GracefulShutdown stops components in order:
// 1. HTTP server (stop accepting commands and close streams)
// 2. Sequencer (cancel the pending timer)
// 3. SSE hub
// 4. Discord announcer (flush queued announcements)
// 5. Trace provider (flush spans)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Sequencer != nil {
		shutdownComponent(ComponentSequencer, components.Sequencer.Close(ctx))
	}

	if components.Hub != nil {
		components.Hub.Stop()
	}

	if components.Announcer != nil {
		shutdownComponent(ComponentDiscord, components.Announcer.Stop(ctx))
	}

	if components.Tracer != nil {
		shutdownComponent(ComponentTracer, components.Tracer(ctx))
	}

	slog.Info(LogMsgServerStopped)
}

func shutdownComponent(name string, err error) {
	if err != nil {
		slog.Error(name+LogMsgComponentStopFailed, "error", err)
	}
}
