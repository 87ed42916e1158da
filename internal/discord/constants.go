package discord

// Announcer configuration
const (
	// QueueSize bounds pending announcements; overflow is dropped, never blocks a draw
	QueueSize = 32

	BotTokenPrefix = "Bot "
)

// Embed colors
const (
	ColorWinner = 0xFFD700 // Gold
	ColorReset  = 0x95a5a6 // Gray
)

// Embed text
const (
	EmbedTitleWinner     = "We have a winner!"
	EmbedTitleReset      = "Raffle reset"
	EmbedFieldPrize      = "Prize"
	EmbedFieldNumber     = "Number"
	EmbedFieldDrawNumber = "Draw"
	EmbedFooter          = "Tombola"
	EmbedResetDescFormat = "Pools restored: **%d** prizes and **%d** numbers."
	EmbedWinnerDescFmt   = "Ticket **%d** takes **%s**!"
)

// Log messages
const (
	LogMsgAnnouncerStarted   = "Discord announcer started"
	LogMsgAnnouncerStopped   = "Discord announcer stopped"
	LogMsgAnnouncementSent   = "Discord announcement sent"
	LogMsgAnnouncementFailed = "Discord announcement failed"
	LogMsgAnnouncementDrop   = "Discord announcement queue full, dropping"
	LogMsgParseError         = "Failed to decode event payload"
)

// Error contexts
const (
	ErrContextCreateSession = "failed to create discord session"
)
