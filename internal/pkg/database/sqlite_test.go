package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "data", "shifts.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, MigrateSQLite(ctx, db))
	// A second run finds nothing pending.
	require.NoError(t, MigrateSQLite(ctx, db))

	for _, table := range []string{"shifts", "orders", "expenses"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestSQLiteSingleActiveIndex(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "shifts.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, MigrateSQLite(ctx, db))

	insert := `INSERT INTO shifts (id, shift_date, scheduled_start, scheduled_end, status, created_at, updated_at)
		VALUES (?, '2026-03-01', '10:00', '14:00', ?, '2026-03-01 09:00:00', '2026-03-01 09:00:00')`

	_, err = db.ExecContext(ctx, insert, "a", "ACTIVE")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, insert, "b", "SCHEDULED")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, insert, "c", "ACTIVE")
	assert.Error(t, err)
}

func TestNewSQLiteDB_RequiresPath(t *testing.T) {
	_, err := NewSQLiteDB(context.Background(), "  ")
	assert.Error(t, err)
}
