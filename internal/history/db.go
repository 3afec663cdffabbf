// Package history persists diagnostic run summaries to SQLite so past
// runs can be reviewed after the fact.
package history

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/diagdash/internal/log"
)

// Schema defines the run history tables.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL UNIQUE,
	system_name TEXT NOT NULL,
	data_rows INTEGER NOT NULL DEFAULT 0,
	data_cols INTEGER NOT NULL DEFAULT 0,
	pass_count INTEGER NOT NULL DEFAULT 0,
	fail_count INTEGER NOT NULL DEFAULT 0,
	warning_count INTEGER NOT NULL DEFAULT 0,
	error_count INTEGER NOT NULL DEFAULT 0,
	results TEXT NOT NULL DEFAULT '[]',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_system_created
	ON runs(system_name, created_at DESC);
`

// DB owns the SQLite connection backing run history.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path and
// applies the schema. Parent directories are created as required.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.ErrorErr(log.CatDB, "Failed to create history directory", err, "dir", dir)
			return nil, err
		}
	}
	log.Debug(log.CatDB, "Opening history database", "path", path)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to open history database", err, "path", path)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		log.ErrorErr(log.CatDB, "Failed to ping history database", err, "path", path)
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		log.ErrorErr(log.CatDB, "Failed to apply history schema", err, "path", path)
		_ = db.Close()
		return nil, err
	}
	log.Info(log.CatDB, "Connected to history database", "path", path)
	return &DB{db: db}, nil
}

// Runs returns the run repository backed by this connection.
func (d *DB) Runs() *RunRepository {
	return NewRunRepository(d.db)
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
