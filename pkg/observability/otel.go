package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies this instrumentation library in exported spans.
const tracerName = "github.com/alexander-naumov/wookie"

// Tracer returns the tracer used for discovery and activation spans. It
// picks up whatever tracer provider the host has installed globally; without
// one the spans are no-ops.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
