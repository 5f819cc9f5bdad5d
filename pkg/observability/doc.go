// Package observability provides the Prometheus metrics and OpenTelemetry
// tracer used by the plugin host. The host process owns the metric registry
// and the tracer provider; this package only defines the instruments.
package observability
