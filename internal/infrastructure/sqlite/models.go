package sqlite

import (
	"time"

	"github.com/zjrosen/opcalc/internal/dispatcher"
	"github.com/zjrosen/opcalc/internal/history"
)

// CalculationModel is a row of the calculations table. Times are stored as
// Unix seconds.
type CalculationModel struct {
	ID        int64
	RequestID string
	TraceID   *string // nullable
	Operator  string
	Left      int64
	Right     int64
	Result    int64
	Outcome   string
	Error     *string // nullable
	CreatedAt int64
}

func toCalculationModel(r *history.Record) *CalculationModel {
	m := &CalculationModel{
		ID:        r.ID,
		RequestID: r.RequestID,
		Operator:  string(r.Operator),
		Left:      int64(r.Left),
		Right:     int64(r.Right),
		Result:    int64(r.Result),
		Outcome:   string(r.Outcome),
		CreatedAt: r.CreatedAt.Unix(),
	}
	if r.TraceID != "" {
		traceID := r.TraceID
		m.TraceID = &traceID
	}
	if r.Error != "" {
		msg := r.Error
		m.Error = &msg
	}
	return m
}

func (m *CalculationModel) toDomain() history.Record {
	rec := history.Record{
		ID:        m.ID,
		RequestID: m.RequestID,
		Left:      int(m.Left),
		Right:     int(m.Right),
		Result:    int(m.Result),
		Outcome:   dispatcher.Outcome(m.Outcome),
		CreatedAt: time.Unix(m.CreatedAt, 0),
	}
	for _, r := range m.Operator {
		rec.Operator = r
		break
	}
	if m.TraceID != nil {
		rec.TraceID = *m.TraceID
	}
	if m.Error != nil {
		rec.Error = *m.Error
	}
	return rec
}
