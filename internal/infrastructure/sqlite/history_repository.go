package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zjrosen/opcalc/internal/history"
)

const calculationColumns = `id, request_id, trace_id, operator, left_operand, right_operand,
	result, outcome, error, created_at`

// historyRepository implements history.Repository using SQLite.
type historyRepository struct {
	db *sql.DB
}

func newHistoryRepository(db *sql.DB) *historyRepository {
	return &historyRepository{db: db}
}

var _ history.Repository = (*historyRepository)(nil)

func scanCalculation(scanner interface{ Scan(...any) error }) (*CalculationModel, error) {
	var m CalculationModel
	err := scanner.Scan(
		&m.ID, &m.RequestID, &m.TraceID, &m.Operator, &m.Left, &m.Right,
		&m.Result, &m.Outcome, &m.Error, &m.CreatedAt,
	)
	return &m, err
}

// Save inserts rec and sets its ID.
func (r *historyRepository) Save(ctx context.Context, rec *history.Record) error {
	m := toCalculationModel(rec)
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO calculations (
			request_id, trace_id, operator, left_operand, right_operand, result, outcome, error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RequestID, m.TraceID, m.Operator, m.Left, m.Right, m.Result, m.Outcome, m.Error, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// Recent returns up to limit records, newest first.
func (r *historyRepository) Recent(ctx context.Context, limit int) ([]history.Record, error) {
	if limit <= 0 {
		limit = history.DefaultLimit
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+calculationColumns+` FROM calculations ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []history.Record
	for rows.Next() {
		m, err := scanCalculation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		out = append(out, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calculations: %w", err)
	}
	return out, nil
}
