// Package tracing provides OpenTelemetry tracing for HTTP handlers and
// the ingestion pipeline.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the application-wide tracer instance.
var tracer = otel.Tracer("ultra-news")

// Tracer returns the application tracer for creating spans.
//
//	ctx, span := tracing.Tracer().Start(ctx, "ingest.source")
//	defer span.End()
func Tracer() trace.Tracer {
	return tracer
}
