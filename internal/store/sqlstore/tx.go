package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vvka-141/pgcsv/internal/schema"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// Tx is one chunk's transaction.
type Tx struct {
	tx      *sql.Tx
	dialect pgcsv.Dialect
	logger  pgcsv.Logger
}

var _ pgcsv.Tx = (*Tx)(nil)

func (t *Tx) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return classify(fmt.Sprintf("execute %s", pgcsv.Preview(query)), err)
	}
	return nil
}

func (t *Tx) InsertRows(ctx context.Context, table pgcsv.TableName, cols []pgcsv.Column, rows [][]any, method pgcsv.InsertMethod) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := schema.CheckRowWidths(cols, rows); err != nil {
		return 0, err
	}

	switch method {
	case pgcsv.InsertValues, "":
		return t.insertValues(ctx, table, cols, rows)
	case pgcsv.InsertBatch:
		return t.insertBatch(ctx, table, cols, rows)
	default:
		return 0, fmt.Errorf("insert method %q on %s: %w", method, t.dialect.Name(), pgcsv.ErrUnsupportedInsertMethod)
	}
}

func (t *Tx) insertValues(ctx context.Context, table pgcsv.TableName, cols []pgcsv.Column, rows [][]any) (int64, error) {
	var inserted int64
	for _, part := range schema.SplitRows(rows, schema.RowsPerStatement(t.dialect, len(cols))) {
		stmt := schema.BuildInsert(t.dialect, table, cols, len(part))
		res, err := t.tx.ExecContext(ctx, stmt, schema.FlattenArgs(part)...)
		if err != nil {
			return inserted, classify(fmt.Sprintf("insert into %s", table), err)
		}
		inserted += rowsAffected(res, len(part))
	}
	t.logger.Verbose("inserted %d rows into %s with multi-row VALUES", inserted, table)
	return inserted, nil
}

func (t *Tx) insertBatch(ctx context.Context, table pgcsv.TableName, cols []pgcsv.Column, rows [][]any) (int64, error) {
	stmt, err := t.tx.PrepareContext(ctx, schema.BuildInsert(t.dialect, table, cols, 1))
	if err != nil {
		return 0, classify(fmt.Sprintf("prepare insert into %s", table), err)
	}
	defer stmt.Close()

	var inserted int64
	for i, row := range rows {
		res, err := stmt.ExecContext(ctx, row...)
		if err != nil {
			return inserted, classify(fmt.Sprintf("insert row %d into %s", i+1, table), err)
		}
		inserted += rowsAffected(res, 1)
	}
	t.logger.Verbose("inserted %d rows into %s with a prepared single-row insert", inserted, table)
	return inserted, nil
}

func rowsAffected(res sql.Result, fallback int) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return int64(fallback)
	}
	return n
}

func (t *Tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return classify("commit", err)
	}
	return nil
}

// Rollback is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback()
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return classify("rollback", err)
}
