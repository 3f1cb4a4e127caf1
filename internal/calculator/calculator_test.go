package calculator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/opcalc/internal/dispatcher"
	"github.com/zjrosen/opcalc/internal/operation"
	"github.com/zjrosen/opcalc/internal/providers/basic"
	"github.com/zjrosen/opcalc/internal/providers/extended"
	"github.com/zjrosen/opcalc/internal/registry"
)

// referenceDescriptors mirrors the builtin provider set without relying on
// the process-wide catalog.
func referenceDescriptors() registry.StaticSource {
	return registry.StaticSource{
		{
			Metadata: operation.NewMetadata('+', "add", ""),
			Factory:  func() (operation.Operation, error) { return basic.Add{}, nil },
		},
		{
			Metadata: operation.NewMetadata('-', "subtract", ""),
			Factory:  func() (operation.Operation, error) { return basic.Subtract{}, nil },
		},
		{
			Metadata: operation.NewMetadata('%', "mod", ""),
			Factory:  func() (operation.Operation, error) { return extended.Mod{}, nil },
		},
	}
}

func newCalculator(t testing.TB, sources ...registry.Source) *Calculator {
	t.Helper()
	reg := registry.New()
	if err := registry.Compose(reg, sources...); err != nil {
		t.Fatalf("compose: %v", err)
	}
	return New(dispatcher.New(reg))
}

func TestCalculate_Scenarios(t *testing.T) {
	calc := newCalculator(t, referenceDescriptors())

	tests := []struct {
		in   string
		want string
	}{
		{"3+4", "7"},
		{"10-3", "7"},
		{"10%3", "1"},
		{"3-10", "-7"},
		{"abc", MsgParseFailed},
		{"", MsgParseFailed},
		{"42", MsgParseFailed},
		{"+5", MsgParseFailed},
		{"3+-5", MsgParseFailed},
		{"5*2", MsgNotFound},
		{"0*0", MsgNotFound},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			got, err := calc.Calculate(context.Background(), tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCalculate_RuntimeFailurePropagates(t *testing.T) {
	calc := newCalculator(t, referenceDescriptors())

	got, err := calc.Calculate(context.Background(), "10%0")

	require.ErrorIs(t, err, operation.ErrDivisionByZero)
	require.Empty(t, got)
}

func TestCalculate_ConstructionFailureIsRecoverable(t *testing.T) {
	var calls atomic.Int32
	calc := newCalculator(t, referenceDescriptors(), registry.StaticSource{{
		Metadata: operation.NewMetadata('/', "divide", ""),
		Factory: func() (operation.Operation, error) {
			calls.Add(1)
			return nil, errors.New("divider offline")
		},
	}})

	for range 3 {
		got, err := calc.Calculate(context.Background(), "8/2")
		require.NoError(t, err)
		require.Equal(t, MsgOperationFailed, got)
	}
	require.Equal(t, int32(1), calls.Load(), "failed construction is not retried")

	got, err := calc.Calculate(context.Background(), "8+2")
	require.NoError(t, err)
	require.Equal(t, "10", got, "other providers keep working")
}

func TestCalculate_DuplicateSymbolFirstRegisteredWins(t *testing.T) {
	calc := newCalculator(t,
		registry.StaticSource{{
			Metadata: operation.NewMetadata('+', "concat", ""),
			Factory: func() (operation.Operation, error) {
				return operation.Func(func(l, r int) (int, error) { return l*10 + r, nil }), nil
			},
		}},
		referenceDescriptors(),
	)

	got, err := calc.Calculate(context.Background(), "3+4")

	require.NoError(t, err)
	require.Equal(t, "34", got)
}

func TestCalculate_FactoryInvokedAtMostOnce(t *testing.T) {
	var calls atomic.Int32
	calc := newCalculator(t, registry.StaticSource{{
		Metadata: operation.NewMetadata('+', "add", ""),
		Factory: func() (operation.Operation, error) {
			calls.Add(1)
			return basic.Add{}, nil
		},
	}})

	for range 25 {
		_, err := calc.Calculate(context.Background(), "1+1")
		require.NoError(t, err)
	}
	_, _ = calc.Calculate(context.Background(), "garbage")
	_, _ = calc.Calculate(context.Background(), "1*1")

	require.Equal(t, int32(1), calls.Load())
}

// TestCalculate_Property_MatchesSemantics checks Calculate("{a}{op}{b}") equals
// the operator's semantics for all non-negative a, b.
func TestCalculate_Property_MatchesSemantics(t *testing.T) {
	calc := newCalculator(t, referenceDescriptors())
	semantics := map[rune]func(a, b int) int{
		'+': func(a, b int) int { return a + b },
		'-': func(a, b int) int { return a - b },
		'%': func(a, b int) int { return a % b },
	}

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, math.MaxInt32).Draw(t, "a")
		b := rapid.IntRange(1, math.MaxInt32).Draw(t, "b")
		op := rapid.SampledFrom([]rune{'+', '-', '%'}).Draw(t, "op")

		got, err := calc.Calculate(context.Background(), fmt.Sprintf("%d%c%d", a, op, b))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := fmt.Sprint(semantics[op](a, b)); got != want {
			t.Fatalf("%d%c%d = %s, want %s", a, op, b, got, want)
		}
	})
}

// TestCalculate_Property_UnregisteredOperator checks that an operator with no
// provider always yields the not-found reply, whatever the operands.
func TestCalculate_Property_UnregisteredOperator(t *testing.T) {
	calc := newCalculator(t, referenceDescriptors())

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, math.MaxInt).Draw(t, "a")
		b := rapid.IntRange(0, math.MaxInt).Draw(t, "b")
		op := rapid.SampledFrom([]rune{'*', '/', '^', '&', '|', 'x', '='}).Draw(t, "op")

		got, err := calc.Calculate(context.Background(), fmt.Sprintf("%d%c%d", a, op, b))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != MsgNotFound {
			t.Fatalf("got %q, want %q", got, MsgNotFound)
		}
	})
}
