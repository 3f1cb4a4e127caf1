// Package history records every dispatch so past calculations can be listed.
package history

import (
	"context"
	"time"

	"github.com/zjrosen/opcalc/internal/dispatcher"
	"github.com/zjrosen/opcalc/internal/log"
	"github.com/zjrosen/opcalc/internal/tracing"
)

// DefaultLimit bounds Recent when the caller passes a non-positive limit.
const DefaultLimit = 20

// Record is one completed dispatch.
type Record struct {
	ID        int64
	RequestID string
	TraceID   string
	Operator  rune
	Left      int
	Right     int
	Result    int
	Outcome   dispatcher.Outcome
	Error     string
	CreatedAt time.Time
}

// Repository persists records.
type Repository interface {
	// Save stores rec and assigns its ID.
	Save(ctx context.Context, rec *Record) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// NewMiddleware records each dispatch into repo after it completes. A failed
// save is logged and never changes the dispatch result.
func NewMiddleware(repo Repository) dispatcher.Middleware {
	return func(next dispatcher.Handler) dispatcher.Handler {
		return dispatcher.HandlerFunc(func(ctx context.Context, req dispatcher.Request) (int, error) {
			result, err := next.Handle(ctx, req)

			rec := &Record{
				RequestID: req.ID,
				TraceID:   tracing.TraceIDFromContext(ctx),
				Operator:  req.Operator,
				Left:      req.Left,
				Right:     req.Right,
				Result:    result,
				Outcome:   dispatcher.Classify(err),
				CreatedAt: time.Now(),
			}
			if err != nil {
				rec.Error = err.Error()
			}

			// Saved on a detached context so a cancelled dispatch is still recorded.
			if saveErr := repo.Save(context.WithoutCancel(ctx), rec); saveErr != nil {
				log.ErrorErr(log.CatDB, "failed to record dispatch", saveErr, "request_id", req.ID)
			}
			return result, err
		})
	}
}
