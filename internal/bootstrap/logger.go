package bootstrap

import (
	"io"
	"log/slog"

	"github.com/osse101/tombola/internal/config"
	"github.com/osse101/tombola/internal/logger"
)

// SetupLogger installs the process logger from cfg and reports any
// configuration warnings through it
func SetupLogger(cfg *config.Config, w io.Writer) {
	logger.InitLoggerWithWriter(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
	), w)

	slog.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat)
	slog.Info(LogMsgStartingTombola,
		"environment", cfg.Environment,
		"version", cfg.Version,
		"draw_mode", cfg.DrawMode)

	slog.Debug(LogMsgConfigurationLoaded,
		"port", cfg.Port,
		"raffle_config", cfg.RaffleConfigPath,
		"cors_origins", cfg.CORSAllowedOrigins,
		"discord", cfg.DiscordEnabled(),
		"tracing", cfg.TracingEnabled(),
		"operator_key", cfg.OperatorAPIKey != "")

	for _, warning := range cfg.Warnings() {
		slog.Warn(LogMsgConfigWarning, "warning", warning)
	}
}
