package history

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/zjrosen/diagdash/internal/diag"
	"github.com/zjrosen/diagdash/internal/log"
)

// ErrRunNotFound is returned when no run matches the requested run ID.
var ErrRunNotFound = errors.New("run not found")

// runColumns is the list of columns to select for run queries.
const runColumns = `id, run_id, system_name, data_rows, data_cols,
	pass_count, fail_count, warning_count, error_count, results, duration_ms, created_at`

// RunRepository stores and retrieves diagnostic run summaries.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a repository on top of an existing
// connection with the history schema applied.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// scanRun scans a row into a RunModel.
func scanRun(scanner interface{ Scan(...any) error }) (*RunModel, error) {
	var model RunModel
	err := scanner.Scan(
		&model.ID, &model.RunID, &model.SystemName, &model.DataRows, &model.DataCols,
		&model.PassCount, &model.FailCount, &model.WarningCount, &model.ErrorCount,
		&model.Results, &model.DurationMS, &model.CreatedAt,
	)
	return &model, err
}

// Save persists a run summary.
func (r *RunRepository) Save(summary diag.Summary) error {
	model, err := toRunModel(summary)
	if err != nil {
		return fmt.Errorf("failed to encode run results: %w", err)
	}
	_, err = r.db.Exec(
		`INSERT INTO runs (
			run_id, system_name, data_rows, data_cols,
			pass_count, fail_count, warning_count, error_count, results, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		model.RunID, model.SystemName, model.DataRows, model.DataCols,
		model.PassCount, model.FailCount, model.WarningCount, model.ErrorCount,
		model.Results, model.DurationMS, model.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	log.Debug(log.CatDB, "Saved run", "run_id", model.RunID, "system", model.SystemName)
	return nil
}

// Get retrieves a run summary by its run ID.
// Returns ErrRunNotFound if no matching run exists.
func (r *RunRepository) Get(runID string) (diag.Summary, error) {
	row := r.db.QueryRow(
		`SELECT `+runColumns+` FROM runs WHERE run_id = ?`,
		runID,
	)
	model, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return diag.Summary{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return diag.Summary{}, fmt.Errorf("failed to find run: %w", err)
	}
	return model.toDomain()
}

// Recent retrieves the most recent runs for a system, newest first.
// An empty systemName returns runs across all systems.
func (r *RunRepository) Recent(systemName string, limit int) ([]diag.Summary, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	args := []any{}
	if systemName != "" {
		query += ` WHERE system_name = ?`
		args = append(args, systemName)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []diag.Summary
	for rows.Next() {
		model, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		summary, err := model.toDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to decode run results: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}
	return summaries, nil
}
