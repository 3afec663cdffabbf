package history

import (
	"encoding/json"
	"time"

	"github.com/zjrosen/diagdash/internal/dataset"
	"github.com/zjrosen/diagdash/internal/diag"
)

// RunModel represents the database row for the runs table. Individual
// test results are stored as a JSON array in the results column.
type RunModel struct {
	ID           int64
	RunID        string
	SystemName   string
	DataRows     int
	DataCols     int
	PassCount    int
	FailCount    int
	WarningCount int
	ErrorCount   int
	Results      string // JSON encoded []diag.Result
	DurationMS   int64
	CreatedAt    int64 // Unix timestamp
}

// toRunModel converts a run summary to a database RunModel.
func toRunModel(s diag.Summary) (*RunModel, error) {
	results, err := json.Marshal(s.Results)
	if err != nil {
		return nil, err
	}
	return &RunModel{
		RunID:        s.RunID,
		SystemName:   s.SystemName,
		DataRows:     s.Shape.Rows,
		DataCols:     s.Shape.Cols,
		PassCount:    s.PassCount(),
		FailCount:    s.FailCount(),
		WarningCount: s.WarningCount(),
		ErrorCount:   s.ErrorCount(),
		Results:      string(results),
		DurationMS:   s.Duration.Milliseconds(),
		CreatedAt:    s.Timestamp.Unix(),
	}, nil
}

// toDomain converts a database RunModel back to a run summary.
func (m *RunModel) toDomain() (diag.Summary, error) {
	var results []diag.Result
	if err := json.Unmarshal([]byte(m.Results), &results); err != nil {
		return diag.Summary{}, err
	}
	return diag.Summary{
		SystemName: m.SystemName,
		RunID:      m.RunID,
		Shape:      dataset.Shape{Rows: m.DataRows, Cols: m.DataCols},
		Results:    results,
		Timestamp:  time.Unix(m.CreatedAt, 0),
		Duration:   time.Duration(m.DurationMS) * time.Millisecond,
	}, nil
}
