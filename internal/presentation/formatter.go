package presentation

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/zjrosen/opcalc/internal/history"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatProviders writes providers as indented JSON.
func (f *Formatter) FormatProviders(providers []ProviderDTO) error {
	return f.encode(providers)
}

// FormatHistory writes calculations as indented JSON.
func (f *Formatter) FormatHistory(calculations []CalculationDTO) error {
	return f.encode(calculations)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func formatCommand(r history.Record) string {
	return strconv.Itoa(r.Left) + string(r.Operator) + strconv.Itoa(r.Right)
}
