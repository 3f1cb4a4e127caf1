// Package extended provides operations shipped outside the basic set.
// Importing it registers them in the builtin catalog.
package extended

import (
	"github.com/zjrosen/opcalc/internal/operation"
	"github.com/zjrosen/opcalc/internal/registry"
)

func init() {
	registry.Provide(
		operation.NewMetadata('%', "mod", "remainder of left / right"),
		func() (operation.Operation, error) { return Mod{}, nil },
	)
}

// Mod returns the remainder of left / right, with the sign of left.
type Mod struct{}

func (Mod) Operate(left, right int) (int, error) {
	if right == 0 {
		return 0, operation.ErrDivisionByZero
	}
	return left % right, nil
}
