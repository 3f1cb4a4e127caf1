package testutil

import (
	"time"

	"github.com/zjrosen/opcalc/internal/dispatcher"
	"github.com/zjrosen/opcalc/internal/history"
)

// CalculationOption configures a fixture record.
type CalculationOption func(*history.Record)

// Result sets the stored result.
func Result(v int) CalculationOption {
	return func(r *history.Record) { r.Result = v }
}

// Failed marks the record as failed with the given outcome and message.
func Failed(outcome dispatcher.Outcome, msg string) CalculationOption {
	return func(r *history.Record) {
		r.Outcome = outcome
		r.Error = msg
		r.Result = 0
	}
}

// At sets the creation time.
func At(t time.Time) CalculationOption {
	return func(r *history.Record) { r.CreatedAt = t }
}

// RequestID sets the request ID.
func RequestID(id string) CalculationOption {
	return func(r *history.Record) { r.RequestID = id }
}

// TraceID sets the trace ID.
func TraceID(id string) CalculationOption {
	return func(r *history.Record) { r.TraceID = id }
}
