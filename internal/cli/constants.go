package cli

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Check-config output
const (
	MsgConfigValid     = "✓ Raffle configuration valid"
	MsgBuiltInSource   = "built-in"
	ErrContextRaffle   = "raffle configuration invalid"
	ErrContextConfig   = "configuration invalid"
	ErrContextRun      = "tombola stopped with error"
)
