package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestApply_SQLiteIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Apply(ctx, db, DialectSQLite))
	require.NoError(t, Apply(ctx, db, DialectSQLite))

	for _, table := range []string{"verified_producers", "audit_events"} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestApply_UnknownDialect(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Error(t, Apply(context.Background(), db, "oracle"))
}

func TestFS_DialectsHaveMatchingFiles(t *testing.T) {
	pg, err := FS.ReadDir(DialectPostgres)
	require.NoError(t, err)
	lite, err := FS.ReadDir(DialectSQLite)
	require.NoError(t, err)

	require.Len(t, lite, len(pg))
	for i := range pg {
		assert.Equal(t, pg[i].Name(), lite[i].Name())
	}
}
