package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db, err := openDatabase(filepath.Join(t.TempDir(), "test.db3"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	require.NoError(t, ApplyMigrations(ctx, db))
	require.NoError(t, ApplyMigrations(ctx, db))

	var version string
	err = db.QueryRowContext(ctx, "SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestRollbackMigration(t *testing.T) {
	db, err := openDatabase(filepath.Join(t.TempDir(), "test.db3"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	require.NoError(t, ApplyMigrations(ctx, db))
	require.NoError(t, RollbackMigration(ctx, db))

	var name string
	err = db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='documents'").Scan(&name)
	assert.Error(t, err, "documents table should be gone after rollback")
}

func TestRollbackWithoutMigrations(t *testing.T) {
	db, err := openDatabase(filepath.Join(t.TempDir(), "test.db3"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Error(t, RollbackMigration(context.Background(), db))
}
