package dispatcher

import (
	"context"
	"errors"
)

// Outcome classifies the result of a dispatch for logs, spans and history.
type Outcome string

const (
	OutcomeOK                 Outcome = "ok"
	OutcomeNotFound           Outcome = "not_found"
	OutcomeConstructionFailed Outcome = "construction_failed"
	OutcomeRuntimeFailed      Outcome = "runtime_failed"
	OutcomeCancelled          Outcome = "cancelled"
)

// Classify maps a Dispatch error to an Outcome. A nil error is OutcomeOK and
// any error the engine does not own is a provider runtime failure.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrOperationNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrProviderConstruction):
		return OutcomeConstructionFailed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeRuntimeFailed
	}
}
