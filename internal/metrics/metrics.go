package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)
)

// Display stream metrics
var (
	DisplayClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameDisplayClients,
			Help: HelpTextDisplayClients,
		},
	)

	DisplayEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDisplayEventsDropped,
			Help: HelpTextDisplayEventsDropped,
		},
		[]string{LabelType},
	)
)

// Raffle Metrics
var (
	Triggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTriggers,
			Help: HelpTextTriggers,
		},
		[]string{LabelResult},
	)

	DrawsCommitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDrawsCommitted,
			Help: HelpTextDrawsCommitted,
		},
	)

	DrawsAborted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDrawsAborted,
			Help: HelpTextDrawsAborted,
		},
	)

	Resets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameResets,
			Help: HelpTextResets,
		},
		[]string{LabelAbortedDraw},
	)

	PrizesAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePrizesAwarded,
			Help: HelpTextPrizesAwarded,
		},
		[]string{LabelPrize},
	)

	RemainingPrizes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameRemainingPrizes,
			Help: HelpTextRemainingPrizes,
		},
	)

	RemainingNumbers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameRemainingNumbers,
			Help: HelpTextRemainingNumbers,
		},
	)

	Exhausted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameExhausted,
			Help: HelpTextExhausted,
		},
	)
)

// RecordTrigger counts one trigger attempt
func RecordTrigger(accepted bool) {
	if accepted {
		Triggers.WithLabelValues(TriggerResultAccepted).Inc()
		return
	}
	Triggers.WithLabelValues(TriggerResultRejected).Inc()
}
