// Package operation defines the capability contract every provider implements
// and the metadata descriptor that routes commands to it.
package operation

import (
	"errors"
	"fmt"
)

// ErrDivisionByZero is returned by providers whose semantics are undefined
// for a zero right operand.
var ErrDivisionByZero = errors.New("division by zero")

// Operation takes two integer operands and produces one integer result.
// A non-nil error is a runtime failure of the provider itself; the engine
// surfaces it to the caller unchanged.
type Operation interface {
	Operate(left, right int) (int, error)
}

// Func adapts a plain function to Operation.
type Func func(left, right int) (int, error)

// Operate calls f(left, right).
func (f Func) Operate(left, right int) (int, error) {
	return f(left, right)
}

// Factory is a zero-argument constructor for an Operation.
// It is invoked lazily, at most once per registry entry.
type Factory func() (Operation, error)

// Metadata is the immutable descriptor attached to a provider.
// Symbol is the routing key; name and description are informational.
type Metadata struct {
	symbol      rune
	name        string
	description string
}

// NewMetadata creates a descriptor for the given symbol.
func NewMetadata(symbol rune, name, description string) Metadata {
	return Metadata{symbol: symbol, name: name, description: description}
}

// Symbol returns the single character this provider handles.
func (m Metadata) Symbol() rune { return m.symbol }

// Name returns the provider's short name (e.g. "add"), possibly empty.
func (m Metadata) Name() string { return m.name }

// Description returns a human readable summary, possibly empty.
func (m Metadata) Description() string { return m.description }

// String renders the descriptor for logs.
func (m Metadata) String() string {
	if m.name == "" {
		return fmt.Sprintf("%q", m.symbol)
	}
	return fmt.Sprintf("%s(%q)", m.name, m.symbol)
}
