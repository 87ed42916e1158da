package bootstrap

// =============================================================================
// Logger Configuration
// =============================================================================

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingTombola     = "Starting tombola"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
)

// =============================================================================
// Wiring
// =============================================================================

const (
	LogMsgRaffleLoaded            = "Raffle configuration loaded"
	LogMsgEventSystemInitialized  = "Event system initialized"
	LogMsgDiscordEnabled          = "Discord announcer enabled"
	LogMsgDiscordDisabled         = "Discord announcer disabled"
	LogMsgSequencerReady          = "Draw sequencer ready"
	ErrContextLoadRaffle          = "failed to load raffle config"
	ErrContextRandomSource        = "failed to seed random source"
	ErrContextCreateSequencer     = "failed to create draw sequencer"
	ErrContextCreateDiscord       = "failed to create discord announcer"
	ErrContextSetupTracing        = "failed to set up tracing"
	ErrContextServerFailed        = "server failed"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgComponentStopFailed  = " shutdown failed"

	ComponentSequencer = "sequencer"
	ComponentDiscord   = "discord"
	ComponentTracer    = "tracer"
)
