// Package testutil provides test utilities for database setup.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/diagdash/internal/history"
)

// NewTestDB creates an in-memory SQLite database with the run history
// schema applied. The database is closed when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	_, err = db.Exec(history.Schema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
