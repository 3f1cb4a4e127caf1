// Package basic provides the addition and subtraction operations.
// Importing it registers both in the builtin catalog.
package basic

import (
	"github.com/zjrosen/opcalc/internal/operation"
	"github.com/zjrosen/opcalc/internal/registry"
)

func init() {
	registry.Provide(
		operation.NewMetadata('+', "add", "left + right"),
		func() (operation.Operation, error) { return Add{}, nil },
	)
	registry.Provide(
		operation.NewMetadata('-', "subtract", "left - right"),
		func() (operation.Operation, error) { return Subtract{}, nil },
	)
}

// Add returns left + right.
type Add struct{}

func (Add) Operate(left, right int) (int, error) {
	return left + right, nil
}

// Subtract returns left - right.
type Subtract struct{}

func (Subtract) Operate(left, right int) (int, error) {
	return left - right, nil
}
