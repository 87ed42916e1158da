package event

// EventSchemaVersion is stamped on every raffle event
const EventSchemaVersion = "1.0"

// ErrContextHandlers prefixes the joined errors returned by Publish
const ErrContextHandlers = "event handlers failed"
