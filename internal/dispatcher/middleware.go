package dispatcher

import (
	"context"
	"time"

	"github.com/zjrosen/opcalc/internal/log"
)

// NewLoggingMiddleware logs every dispatch with its outcome and duration.
// Runtime failures log at error level, engine-owned misses at warn.
func NewLoggingMiddleware() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) (int, error) {
			start := time.Now()
			result, err := next.Handle(ctx, req)
			duration := time.Since(start)

			outcome := Classify(err)
			fields := []any{
				"request_id", req.ID,
				"operator", string(req.Operator),
				"left", req.Left,
				"right", req.Right,
				"duration", duration,
				"outcome", outcome,
			}

			switch outcome {
			case OutcomeOK:
				log.Debug(log.CatDispatch, "dispatch completed", append(fields, "result", result)...)
			case OutcomeNotFound, OutcomeCancelled:
				log.Warn(log.CatDispatch, "dispatch not served", append(fields, "error", err.Error())...)
			default:
				log.Error(log.CatDispatch, "dispatch failed", append(fields, "error", err.Error())...)
			}
			return result, err
		})
	}
}

// DefaultSlowThreshold is the default duration above which a dispatch is
// reported as slow.
const DefaultSlowThreshold = 100 * time.Millisecond

// NewSlowDispatchMiddleware logs a warning when a dispatch exceeds threshold.
// It never aborts the provider; a provider has no suspension point to cancel.
func NewSlowDispatchMiddleware(threshold time.Duration) Middleware {
	if threshold <= 0 {
		threshold = DefaultSlowThreshold
	}
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) (int, error) {
			start := time.Now()
			result, err := next.Handle(ctx, req)
			if d := time.Since(start); d > threshold {
				log.Warn(log.CatDispatch, "dispatch exceeded time threshold",
					"request_id", req.ID,
					"operator", string(req.Operator),
					"duration", d,
					"threshold", threshold,
				)
			}
			return result, err
		})
	}
}
