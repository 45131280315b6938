// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"testing"

	"github.com/helixbill/denialflow/internal/storage"
	"github.com/stretchr/testify/require"
)

// SetupTestDB creates an in-memory SQLite database with the full schema
// applied, and registers cleanup with the test.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, store.Migrate(context.Background()), "failed to migrate test database")

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
