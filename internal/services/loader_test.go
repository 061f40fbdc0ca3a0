package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgcsv/internal/csvread"
	"github.com/vvka-141/pgcsv/internal/logging"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

func TestBatchLoader_Load(t *testing.T) {
	loader := newLoader(t, newJob(pgcsv.ModeChunked, 0), salesFiles)
	store := &mockStore{}

	result, err := loader.Load(context.Background(), store, sources("a.csv", "b.csv"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a.csv", "b.csv"}, result.Files)
	assert.Equal(t, int64(5), result.Rows)
	assert.True(t, result.Provisioned)
	assert.Equal(t, []pgcsv.Column{
		{Name: "id", Type: pgcsv.ColumnNumeric},
		{Name: "sale_amount", Type: pgcsv.ColumnFloat},
	}, result.Columns)

	require.Len(t, store.txs, 1)
	tx := store.txs[0]
	assert.Equal(t, []string{`CREATE TABLE IF NOT EXISTS "sales" ("id" NUMERIC, "sale_amount" FLOAT)`}, tx.execs)
	assert.Equal(t, 1, tx.inserts, "one insert call per batch")
	assert.Equal(t, pgcsv.InsertValues, tx.method)
	assert.Equal(t, []any{int64(2), float64(20)}, tx.rows[1], "integers in a float column are widened")
	assert.True(t, tx.committed)
}

func TestBatchLoader_Nulls(t *testing.T) {
	job := newJob(pgcsv.ModeChunked, 0)
	job.Parse.DateColumns = []string{"Date"}
	loader := newLoader(t, job, map[string]string{
		"d.csv": "Date,Note,Code\n2024-01-05,,007\n??,x,NA\n",
	})
	store := &mockStore{}

	result, err := loader.Load(context.Background(), store, sources("d.csv"))
	require.NoError(t, err)

	assert.Equal(t, []pgcsv.Column{
		{Name: "date", Type: pgcsv.ColumnTimestamp},
		{Name: "note", Type: pgcsv.ColumnText},
		{Name: "code", Type: pgcsv.ColumnNumeric},
	}, result.Columns)

	rows := store.txs[0].rows
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), rows[0][0])
	assert.Nil(t, rows[0][1], "empty string is stored as NULL")
	assert.Nil(t, rows[1][0], "unparseable date is stored as NULL")
	assert.Nil(t, rows[1][2], "null token is stored as NULL")
}

func TestBatchLoader_NormalizesLabels(t *testing.T) {
	loader := newLoader(t, newJob(pgcsv.ModeChunked, 0), map[string]string{
		"obat.csv": "QTY OBAT BEBAS,Harga/Unit $\n3,1.5\n",
	})
	store := &mockStore{}

	result, err := loader.Load(context.Background(), store, sources("obat.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"qty_obat_bebas", "harga_unit_"}, pgcsv.ColumnNames(result.Columns))
}

func TestBatchLoader_EdgeCases(t *testing.T) {
	t.Run("header only provisions and commits", func(t *testing.T) {
		loader := newLoader(t, newJob(pgcsv.ModeChunked, 0), map[string]string{"h.csv": "A,B\n"})
		store := &mockStore{}

		result, err := loader.Load(context.Background(), store, sources("h.csv"))
		require.NoError(t, err)
		assert.True(t, result.Provisioned)
		assert.Zero(t, result.Rows)
		require.Len(t, store.txs, 1)
		assert.Zero(t, store.txs[0].inserts)
		assert.True(t, store.txs[0].committed)
		assert.Contains(t, store.txs[0].execs[0], `"a" VARCHAR(35)`)
	})

	t.Run("empty file touches nothing", func(t *testing.T) {
		loader := newLoader(t, newJob(pgcsv.ModeChunked, 0), map[string]string{"e.csv": ""})
		store := &mockStore{}

		result, err := loader.Load(context.Background(), store, sources("e.csv"))
		require.NoError(t, err)
		assert.False(t, result.Provisioned)
		assert.Empty(t, store.txs)
	})

	t.Run("duplicate normalized names", func(t *testing.T) {
		loader := newLoader(t, newJob(pgcsv.ModeChunked, 0), map[string]string{"d.csv": "Sale Amount,sale-amount\n1,2\n"})
		store := &mockStore{}

		_, err := loader.Load(context.Background(), store, sources("d.csv"))
		assert.ErrorIs(t, err, pgcsv.ErrSchema)
		assert.Contains(t, err.Error(), "sale_amount")
		assert.Empty(t, store.txs)
	})
}

func TestBatchLoader_Failures(t *testing.T) {
	tests := []struct {
		name         string
		store        *mockStore
		files        []pgcsv.SourceFile
		wantErr      error
		wantRollback bool
	}{
		{"parse error", &mockStore{}, sources("missing.csv"), pgcsv.ErrParse, false},
		{"begin fails", &mockStore{beginErr: pgcsv.ErrConnectionFailed}, sources("a.csv"), pgcsv.ErrConnectionFailed, false},
		{"create rejected", &mockStore{execErr: errStoreRejected}, sources("a.csv"), pgcsv.ErrSchema, true},
		{"insert rejected", &mockStore{insertErr: pgcsv.ErrLoadFailed}, sources("a.csv"), pgcsv.ErrLoadFailed, true},
		{"commit fails", &mockStore{commitErr: pgcsv.ErrLoadFailed}, sources("a.csv"), pgcsv.ErrLoadFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newLoader(t, newJob(pgcsv.ModeChunked, 0), salesFiles)

			result, err := loader.Load(context.Background(), tt.store, tt.files)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, result.Rows)
			assert.Empty(t, tt.store.committed())
			if tt.wantRollback {
				require.Len(t, tt.store.txs, 1)
				assert.True(t, tt.store.txs[0].rolledBack)
			}
		})
	}
}

func TestBatchLoader_StrictPolicy(t *testing.T) {
	job := newJob(pgcsv.ModeChunked, 0)
	job.SchemaPolicy = pgcsv.PolicyStrict

	t.Run("matching table", func(t *testing.T) {
		store := &mockStore{existing: []pgcsv.ExistingColumn{{Name: "id", SQLType: "numeric"}, {Name: "sale_amount", SQLType: "double precision"}}}
		_, err := newLoader(t, job, salesFiles).Load(context.Background(), store, sources("a.csv"))
		require.NoError(t, err)
		assert.Equal(t, 1, store.tableReads)
	})

	t.Run("missing table", func(t *testing.T) {
		store := &mockStore{}
		_, err := newLoader(t, job, salesFiles).Load(context.Background(), store, sources("a.csv"))
		require.NoError(t, err)
	})

	t.Run("drift is rejected before any statement", func(t *testing.T) {
		store := &mockStore{existing: []pgcsv.ExistingColumn{{Name: "id", SQLType: "numeric"}, {Name: "amount", SQLType: "double precision"}}}
		_, err := newLoader(t, job, salesFiles).Load(context.Background(), store, sources("a.csv"))
		assert.ErrorIs(t, err, pgcsv.ErrSchemaDrift)
		assert.ErrorIs(t, err, pgcsv.ErrSchema)
		assert.Empty(t, store.txs)
	})

	t.Run("default policy never reads the catalog", func(t *testing.T) {
		store := &mockStore{existing: []pgcsv.ExistingColumn{{Name: "other", SQLType: "text"}}}
		_, err := newLoader(t, newJob(pgcsv.ModeChunked, 0), salesFiles).Load(context.Background(), store, sources("a.csv"))
		require.NoError(t, err)
		assert.Zero(t, store.tableReads)
	})
}

func TestBatchLoader_ReadLogsProgressPerFile(t *testing.T) {
	job := newJob(pgcsv.ModeChunked, 0)
	reader, err := csvread.NewReader(memoryFS(salesFiles), job.Parse)
	require.NoError(t, err)
	var out bytes.Buffer
	loader := NewBatchLoader(reader, job, logging.NewWriterLogger(&out, false))

	_, err = loader.Read(sources("a.csv", "b.csv"))
	require.NoError(t, err)

	assert.Equal(t, "✓ Read a.csv: 3 rows, 2 columns\n✓ Read b.csv: 2 rows, 2 columns\n", out.String())
}

func TestNewBatchLoader_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewBatchLoader(nil, newJob(pgcsv.ModeChunked, 0), logging.NewNullLogger()) })
}
