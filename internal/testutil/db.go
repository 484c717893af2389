// AngelaMos | 2026
// db.go

package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/librisys/backend/internal/config"
	"github.com/librisys/backend/internal/core"
)

// NewDatabase opens a migrated sqlite database in a temp dir with the same
// pool size the service defaults to.
func NewDatabase(t *testing.T) *core.Database {
	t.Helper()

	path := filepath.Join(t.TempDir(), "librisys.db")

	db, err := core.NewDatabase(context.Background(), config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		URL:          "file:" + path + "?_foreign_keys=on&_loc=UTC",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close() //nolint:errcheck // test cleanup
	})

	require.NoError(t, db.Migrate(DiscardLogger()))

	return db
}

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
