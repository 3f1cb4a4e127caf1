package testutil

import (
	"time"

	"github.com/zjrosen/opcalc/internal/dispatcher"
)

// WithStandardHistory adds one calculation per outcome, a minute apart,
// oldest first: 3+4, 10%3, 10%0, 5*2.
func (b *Builder) WithStandardHistory() *Builder {
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	return b.
		WithCalculation('+', 3, 4, Result(7), At(base), RequestID("std-1")).
		WithCalculation('%', 10, 3, Result(1), At(base.Add(time.Minute)), RequestID("std-2")).
		WithCalculation('%', 10, 0, Failed(dispatcher.OutcomeRuntimeFailed, "division by zero"),
			At(base.Add(2*time.Minute)), RequestID("std-3")).
		WithCalculation('*', 5, 2, Failed(dispatcher.OutcomeNotFound, "operation not found: '*'"),
			At(base.Add(3*time.Minute)), RequestID("std-4"))
}
