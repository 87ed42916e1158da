// Package bootstrap wires the raffle service together and owns its lifecycle.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/tombola/internal/config"
	"github.com/osse101/tombola/internal/discord"
	"github.com/osse101/tombola/internal/domain"
	"github.com/osse101/tombola/internal/draw"
	"github.com/osse101/tombola/internal/event"
	"github.com/osse101/tombola/internal/pool"
	"github.com/osse101/tombola/internal/random"
	"github.com/osse101/tombola/internal/server"
	"github.com/osse101/tombola/internal/sse"
	"github.com/osse101/tombola/internal/telemetry"
)

// Options overrides process dependencies, mostly for tests
type Options struct {
	Clock         clockwork.Clock
	Random        random.Source
	DiscordSender discord.EmbedSender
}

// App is the fully wired service
type App struct {
	Config    *config.Config
	Defaults  domain.PoolConfig
	Pools     *pool.Manager
	Bus       *event.MemoryBus
	Hub       *sse.Hub
	Sequencer *draw.Sequencer
	Announcer *discord.Announcer
	Server    *server.Server

	tracer telemetry.ShutdownFunc
}

// New builds every component from cfg. Nothing is started.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	raffle, err := config.LoadRaffle(cfg.RaffleConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextLoadRaffle, err)
	}
	defaults := raffle.PoolConfig()
	slog.Info(LogMsgRaffleLoaded,
		"tiers", len(raffle.Prizes),
		"prizes", len(defaults.Prizes),
		"number_start", defaults.NumberStart,
		"number_count", defaults.NumberCount)

	tracer, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextSetupTracing, err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	rng := opts.Random
	if rng == nil {
		if rng, err = random.NewSource(); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextRandomSource, err)
		}
	}

	pools := pool.NewManager(clock, defaults)
	bus, hub := InitializeEventSystem()

	seq, err := draw.NewSequencer(pools, bus, clock, rng, cfg.DrawMode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextCreateSequencer, err)
	}
	slog.Info(LogMsgSequencerReady, "mode", seq.Mode(), "phase", seq.Phase())

	announcer, err := newAnnouncer(cfg, opts.DiscordSender)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextCreateDiscord, err)
	}
	if announcer != nil {
		announcer.Register(bus)
	}

	return &App{
		Config:    cfg,
		Defaults:  defaults,
		Pools:     pools,
		Bus:       bus,
		Hub:       hub,
		Sequencer: seq,
		Announcer: announcer,
		Server:    server.NewServer(cfg, seq, hub, defaults),
		tracer:    tracer,
	}, nil
}

// newAnnouncer returns nil when announcements are not configured
func newAnnouncer(cfg *config.Config, sender discord.EmbedSender) (*discord.Announcer, error) {
	if !cfg.DiscordEnabled() {
		slog.Info(LogMsgDiscordDisabled)
		return nil, nil
	}
	if sender == nil {
		session, err := discord.NewSession(cfg.DiscordToken)
		if err != nil {
			return nil, err
		}
		sender = session
	}
	slog.Info(LogMsgDiscordEnabled, "channel_id", cfg.DiscordChannelID)
	return discord.NewAnnouncer(sender, cfg.DiscordChannelID), nil
}

// Run starts the background components and the HTTP server, then blocks
// until ctx is cancelled or the server fails. Shutdown is bounded by
// the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	a.Hub.Start()
	if a.Announcer != nil {
		a.Announcer.Start()
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := a.Server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("%s: %w", ErrContextServerFailed, err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.ShutdownTimeout)
	defer cancel()
	a.Shutdown(shutdownCtx)

	return runErr
}

// Shutdown stops every component in order
func (a *App) Shutdown(ctx context.Context) {
	GracefulShutdown(ctx, ShutdownComponents{
		Server:    a.Server,
		Sequencer: a.Sequencer,
		Hub:       a.Hub,
		Announcer: a.Announcer,
		Tracer:    a.tracer,
	})
}
