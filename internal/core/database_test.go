// AngelaMos | 2026
// database_test.go

package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librisys/backend/internal/core"
	"github.com/librisys/backend/internal/testutil"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db := testutil.NewDatabase(t)

	require.NoError(t, db.Migrate(testutil.DiscardLogger()))

	var tables []string
	require.NoError(t, db.DB.Select(&tables, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name IN ('users', 'books', 'borrow_requests')
		ORDER BY name`))
	assert.Equal(t, []string{"books", "borrow_requests", "users"}, tables)
}

func TestIsDuplicateKeyErrorOnSQLite(t *testing.T) {
	db := testutil.NewDatabase(t)
	ctx := context.Background()

	insert := `INSERT INTO books (id, title, author, isbn, availability, created_at, updated_at)
		VALUES (?, 'T', 'A', 'isbn-1', 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err := db.DB.ExecContext(ctx, insert, "b1")
	require.NoError(t, err)

	_, err = db.DB.ExecContext(ctx, insert, "b2")
	require.Error(t, err)
	assert.True(t, core.IsDuplicateKeyError(err))

	assert.False(t, core.IsDuplicateKeyError(errors.New("boom")))
}

func TestInTxRollsBackOnError(t *testing.T) {
	db := testutil.NewDatabase(t)
	ctx := context.Background()
	sentinel := errors.New("abort")

	err := db.InTx(ctx, func(tx core.DBTX) error {
		_, execErr := tx.ExecContext(ctx, `
			INSERT INTO books (id, title, author, isbn, availability, created_at, updated_at)
			VALUES ('b1', 'T', 'A', 'isbn-1', 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
		require.NoError(t, execErr)
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var n int
	require.NoError(t, db.DB.Get(&n, `SELECT COUNT(*) FROM books`))
	assert.Zero(t, n)
}
