package presentation

import (
	"time"

	"github.com/zjrosen/opcalc/internal/history"
	"github.com/zjrosen/opcalc/internal/registry"
)

// ProviderDTO represents one registry entry for presentation.
type ProviderDTO struct {
	Index       int    `json:"index"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
	Shadowed    bool   `json:"shadowed"`
}

// FromEntry converts a registry entry snapshot to a DTO.
func FromEntry(e registry.EntryInfo, enabled bool) ProviderDTO {
	return ProviderDTO{
		Index:       e.Index,
		Symbol:      string(e.Metadata.Symbol()),
		Name:        e.Metadata.Name(),
		Description: e.Metadata.Description(),
		Enabled:     enabled,
		Shadowed:    e.Shadowed,
	}
}

// FromEntries converts entries, marking each enabled when it matches any of
// the selector keys. An empty selector list enables everything.
func FromEntries(entries []registry.EntryInfo, enabledKeys []string) []ProviderDTO {
	dtos := make([]ProviderDTO, len(entries))
	for i, e := range entries {
		enabled := len(enabledKeys) == 0 || registry.Matches(e.Metadata, enabledKeys)
		dtos[i] = FromEntry(e, enabled)
	}
	return dtos
}

// CalculationDTO represents a history record for presentation.
type CalculationDTO struct {
	ID        int64  `json:"id"`
	RequestID string `json:"request_id"`
	TraceID   string `json:"trace_id,omitempty"`
	Command   string `json:"command"`
	Result    *int   `json:"result,omitempty"`
	Outcome   string `json:"outcome"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
}

// FromRecord converts a history record. Result is omitted unless the
// dispatch succeeded.
func FromRecord(r history.Record) CalculationDTO {
	dto := CalculationDTO{
		ID:        r.ID,
		RequestID: r.RequestID,
		TraceID:   r.TraceID,
		Command:   formatCommand(r),
		Outcome:   string(r.Outcome),
		Error:     r.Error,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.Error == "" {
		result := r.Result
		dto.Result = &result
	}
	return dto
}

// FromRecords converts a slice of history records.
func FromRecords(records []history.Record) []CalculationDTO {
	dtos := make([]CalculationDTO, len(records))
	for i, r := range records {
		dtos[i] = FromRecord(r)
	}
	return dtos
}
