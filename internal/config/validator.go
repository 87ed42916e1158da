package config

import "slices"

// Warnings returns non-fatal configuration issues worth logging at startup
func (c *Config) Warnings() []string {
	var warnings []string

	if (c.DiscordToken == "") != (c.DiscordChannelID == "") {
		warnings = append(warnings, WarnDiscordHalfConfigured)
	}

	if c.Environment == EnvironmentProduction && slices.Contains(c.CORSAllowedOrigins, "*") {
		warnings = append(warnings, WarnWildcardCORSInProd)
	}

	if c.Environment == EnvironmentProduction && c.OperatorAPIKey == "" {
		warnings = append(warnings, WarnNoOperatorKeyInProd)
	}

	if c.RaffleConfigPath == "" {
		warnings = append(warnings, WarnBuiltInRaffle)
	}

	return warnings
}
