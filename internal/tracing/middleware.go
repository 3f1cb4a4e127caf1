package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/opcalc/internal/dispatcher"
)

// NewMiddleware opens one span per dispatch. A nil tracer yields a
// pass-through middleware.
func NewMiddleware(tracer trace.Tracer) dispatcher.Middleware {
	if tracer == nil {
		return func(next dispatcher.Handler) dispatcher.Handler { return next }
	}

	return func(next dispatcher.Handler) dispatcher.Handler {
		return dispatcher.HandlerFunc(func(ctx context.Context, req dispatcher.Request) (int, error) {
			ctx, span := tracer.Start(ctx, SpanDispatch, trace.WithSpanKind(trace.SpanKindInternal))
			defer span.End()

			span.SetAttributes(
				attribute.String(AttrRequestID, req.ID),
				attribute.String(AttrOperator, string(req.Operator)),
				attribute.Int(AttrLeft, req.Left),
				attribute.Int(AttrRight, req.Right),
			)

			result, err := next.Handle(ctx, req)

			span.SetAttributes(attribute.String(AttrOutcome, string(dispatcher.Classify(err))))
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetAttributes(attribute.Int(AttrResult, result))
				span.SetStatus(codes.Ok, "")
			}
			return result, err
		})
	}
}
