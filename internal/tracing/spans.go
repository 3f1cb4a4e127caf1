package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Span names and attribute keys for dispatch tracing.
const (
	SpanDispatch = "dispatch"

	AttrRequestID = "dispatch.request_id"
	AttrOperator  = "dispatch.operator"
	AttrLeft      = "dispatch.left"
	AttrRight     = "dispatch.right"
	AttrResult    = "dispatch.result"
	AttrOutcome   = "dispatch.outcome"
)

// TraceIDFromContext returns the hex trace ID of the span in ctx, or "" when
// there is no recording span.
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
