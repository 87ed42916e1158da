package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished = "events_published_total"
)

// Display stream metric names
const (
	MetricNameDisplayClients       = "raffle_display_clients"
	MetricNameDisplayEventsDropped = "raffle_display_events_dropped_total"
)

// Raffle metric names
const (
	MetricNameTriggers         = "raffle_triggers_total"
	MetricNameDrawsCommitted   = "raffle_draws_committed_total"
	MetricNameDrawsAborted     = "raffle_draws_aborted_total"
	MetricNameResets           = "raffle_resets_total"
	MetricNamePrizesAwarded    = "raffle_prizes_awarded_total"
	MetricNameRemainingPrizes  = "raffle_remaining_prizes"
	MetricNameRemainingNumbers = "raffle_remaining_numbers"
	MetricNameExhausted        = "raffle_exhausted"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished = "Total number of raffle events published on the bus"
)

// Display stream metric help text
const (
	HelpTextDisplayClients       = "Connected display stream clients"
	HelpTextDisplayEventsDropped = "Display events not delivered because a buffer was full"
)

// Raffle metric help text
const (
	HelpTextTriggers         = "Draw triggers by result"
	HelpTextDrawsCommitted   = "Draws that committed a winner"
	HelpTextDrawsAborted     = "Draws discarded because the pools changed underneath them"
	HelpTextResets           = "Raffle resets, labelled by whether a draw was cancelled"
	HelpTextPrizesAwarded    = "Committed winners per prize name"
	HelpTextRemainingPrizes  = "Prizes left in the pool"
	HelpTextRemainingNumbers = "Numbers left in the pool"
	HelpTextExhausted        = "1 when either pool is empty"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelMethod      = "method"
	LabelPath        = "path"
	LabelStatus      = "status"
	LabelType        = "type"
	LabelResult      = "result"
	LabelPrize       = "prize"
	LabelAbortedDraw = "aborted_draw"
)

// Trigger results
const (
	TriggerResultAccepted = "accepted"
	TriggerResultRejected = "rejected"
)

// Histogram buckets
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5}

// UnmatchedRoute labels requests chi could not route
const UnmatchedRoute = "unmatched"

// Log messages
const (
	LogMsgUnexpectedPayload   = "Unexpected raffle event payload"
	LogMsgCollectorRegistered = "Raffle metrics collector registered"
)
