// Package testutil builds calculation history fixtures for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/opcalc/internal/dispatcher"
	"github.com/zjrosen/opcalc/internal/history"
)

// Builder accumulates calculations and saves them in order.
type Builder struct {
	t       *testing.T
	repo    history.Repository
	records []*history.Record
}

// NewBuilder creates a builder that saves into repo.
func NewBuilder(t *testing.T, repo history.Repository) *Builder {
	t.Helper()
	return &Builder{t: t, repo: repo}
}

// WithCalculation adds a successful calculation; opts may override any field.
func (b *Builder) WithCalculation(operator rune, left, right int, opts ...CalculationOption) *Builder {
	rec := &history.Record{
		RequestID: "req-" + string(operator),
		Operator:  operator,
		Left:      left,
		Right:     right,
		Outcome:   dispatcher.OutcomeOK,
		CreatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(rec)
	}
	b.records = append(b.records, rec)
	return b
}

// Build saves every accumulated record and returns them with IDs assigned.
func (b *Builder) Build() []history.Record {
	b.t.Helper()
	out := make([]history.Record, 0, len(b.records))
	for _, rec := range b.records {
		require.NoError(b.t, b.repo.Save(context.Background(), rec))
		out = append(out, *rec)
	}
	return out
}
