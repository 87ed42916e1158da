package config

// Error contexts
const (
	ErrContextLoadEnvFile  = "failed to load env file"
	ErrContextParseEnv     = "failed to parse environment"
	ErrContextReadRaffle   = "failed to read raffle config"
	ErrContextDecodeRaffle = "failed to decode raffle config"
)

// Raffle file extensions
const (
	ExtYAML = ".yaml"
	ExtYML  = ".yml"
	ExtJSON = ".json"
)

// Warning messages
const (
	WarnDiscordHalfConfigured = "only one of DISCORD_TOKEN and DISCORD_CHANNEL_ID is set; winner announcements are disabled"
	WarnWildcardCORSInProd    = "CORS_ALLOWED_ORIGINS is '*' in production"
	WarnNoOperatorKeyInProd   = "OPERATOR_API_KEY is not set in production; draw and reset are open to anyone"
	WarnBuiltInRaffle         = "RAFFLE_CONFIG is not set; using the built-in prize table"
)

// EnvironmentProduction is the ENVIRONMENT value that enables production checks
const EnvironmentProduction = "prod"
