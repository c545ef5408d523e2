package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/pkg/database"
	"github.com/driverwallet/shift-backend-go/internal/repository/repotest"
	"github.com/driverwallet/shift-backend-go/internal/repository/sqlite"
	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T) repotest.Stores {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.MigrateSQLite(ctx, db))

	return repotest.Stores{
		Shifts:     sqlite.NewShiftRepository(db, time.UTC),
		Ledger:     sqlite.NewLedgerRepository(db, time.UTC),
		Transactor: sqlite.NewTransactor(db),
	}
}

func TestShiftRepository(t *testing.T) {
	repotest.RunShiftRepository(t, newStores)
}

func TestLedgerRepository(t *testing.T) {
	repotest.RunLedgerRepository(t, newStores)
}
