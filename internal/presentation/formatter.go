package presentation

import (
	"encoding/json"
	"io"
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

// FormatSystems formats a list of systems as JSON
func (f *Formatter) FormatSystems(systems []SystemDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(systems)
}

// FormatSummary formats a run summary as JSON
func (f *Formatter) FormatSummary(summary SummaryDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

// FormatSummaries formats a list of run summaries as JSON
func (f *Formatter) FormatSummaries(summaries []SummaryDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summaries)
}
