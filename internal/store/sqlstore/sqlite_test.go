package sqlstore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"modernc.org/sqlite"

	"github.com/vvka-141/pgcsv/internal/logging"
	"github.com/vvka-141/pgcsv/internal/schema"
	"github.com/vvka-141/pgcsv/internal/store/sqlstore"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

func openSQLite(t *testing.T) pgcsv.Store {
	t.Helper()
	connector, err := sqlstore.NewConnector("sqlite", filepath.Join(t.TempDir(), "load.db"), logging.NewNullLogger())
	require.NoError(t, err)

	store, err := connector.Connect(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

var loadCols = []pgcsv.Column{
	{Name: "date", Type: pgcsv.ColumnTimestamp},
	{Name: "qty", Type: pgcsv.ColumnNumeric},
	{Name: "price", Type: pgcsv.ColumnFloat},
	{Name: "note", Type: pgcsv.ColumnText},
}

func provision(t *testing.T, store pgcsv.Store, tx pgcsv.Tx, table pgcsv.TableName) {
	t.Helper()
	p := schema.NewProvisioner(store.Dialect(), "TEXT", logging.NewNullLogger())
	require.NoError(t, p.Provision(context.Background(), tx, table, loadCols))
}

func TestSQLite_InsertMethods(t *testing.T) {
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	rows := [][]any{
		{day, int64(3), 1.5, "first"},
		{day, int64(4), 2.25, nil},
	}

	for _, method := range []pgcsv.InsertMethod{pgcsv.InsertValues, pgcsv.InsertBatch} {
		t.Run(string(method), func(t *testing.T) {
			store := openSQLite(t)
			ctx := context.Background()
			table := pgcsv.TableName{Name: "sales"}

			tx, err := store.Begin(ctx)
			require.NoError(t, err)
			provision(t, store, tx, table)

			n, err := tx.InsertRows(ctx, table, loadCols, rows, method)
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)
			require.NoError(t, tx.Commit(ctx))

			cols, err := store.TableColumns(ctx, table)
			require.NoError(t, err)
			assert.Equal(t, []pgcsv.ExistingColumn{
				{Name: "date", SQLType: "TIMESTAMP"},
				{Name: "qty", SQLType: "NUMERIC"},
				{Name: "price", SQLType: "FLOAT"},
				{Name: "note", SQLType: "TEXT"},
			}, cols)
		})
	}
}

func TestSQLite_SplitsLargeValuesInsert(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()
	table := pgcsv.TableName{Name: "wide"}

	rows := make([][]any, 10000)
	for i := range rows {
		rows[i] = []any{nil, int64(i), float64(i) / 2, "x"}
	}

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	provision(t, store, tx, table)
	n, err := tx.InsertRows(ctx, table, loadCols, rows, pgcsv.InsertValues)
	require.NoError(t, err)
	assert.Equal(t, int64(len(rows)), n)
	require.NoError(t, tx.Commit(ctx))
}

func TestSQLite_RollbackDiscardsChunk(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()
	table := pgcsv.TableName{Name: "sales"}

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	provision(t, store, tx, table)
	require.NoError(t, tx.Rollback(ctx))

	cols, err := store.TableColumns(ctx, table)
	require.NoError(t, err)
	assert.Nil(t, cols, "table created inside a rolled back transaction must not exist")
}

func TestSQLite_UnknownColumnIsSchemaError(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()
	table := pgcsv.TableName{Name: "sales"}

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	provision(t, store, tx, table)

	extra := []pgcsv.Column{{Name: "missing", Type: pgcsv.ColumnText}}
	_, err = tx.InsertRows(ctx, table, extra, [][]any{{"x"}}, pgcsv.InsertValues)
	assert.ErrorIs(t, err, pgcsv.ErrSchema)
	require.NoError(t, tx.Rollback(ctx))
}

func TestSQLite_DuplicateColumnIsSchemaError(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx) //nolint:errcheck

	err = tx.Exec(ctx, `CREATE TABLE "dup" ("a" TEXT, "a" TEXT)`)
	assert.ErrorIs(t, err, pgcsv.ErrSchema)
	assert.Contains(t, err.Error(), `execute CREATE TABLE "dup"`)

	var liteErr *sqlite.Error
	require.ErrorAs(t, err, &liteErr)
	assert.Equal(t, 1, liteErr.Code()&0xff)
}

func TestSQLite_CloseIsIdempotent(t *testing.T) {
	store := openSQLite(t)
	require.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestSQLite_ConnectFailure(t *testing.T) {
	connector, err := sqlstore.NewConnector("sqlite", filepath.Join(t.TempDir(), "no", "such", "dir", "x.db"), logging.NewNullLogger())
	require.NoError(t, err)

	_, err = connector.Connect(context.Background())
	assert.ErrorIs(t, err, pgcsv.ErrConnectionFailed)
}
