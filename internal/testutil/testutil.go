package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurobloom/screener/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied,
// including the seeded assessment catalog.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return NewTestDatabase(t).DB
}

// NewTestDatabase is like NewTestDB but returns the wrapping db.DB for
// callers that need more than the bare connection.
func NewTestDatabase(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err, "failed to open test database")
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
