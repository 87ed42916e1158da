package telemetry

const (
	ErrContextExporter = "failed to create OTLP exporter"
	ErrContextResource = "failed to build trace resource"

	LogMsgTracingEnabled = "Tracing enabled"
)
