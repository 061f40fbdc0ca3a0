package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgcsv/internal/schema"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// Tx is one chunk's transaction.
type Tx struct {
	tx     pgx.Tx
	logger pgcsv.Logger
}

var _ pgcsv.Tx = (*Tx)(nil)

func (t *Tx) Exec(ctx context.Context, sql string, args ...any) error {
	if _, err := t.tx.Exec(ctx, sql, args...); err != nil {
		return classify(fmt.Sprintf("execute %s", pgcsv.Preview(sql)), err)
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
	case pgcsv.InsertCopy:
		return t.copyRows(ctx, table, cols, rows)
	default:
		return 0, fmt.Errorf("insert method %q: %w", method, pgcsv.ErrUnsupportedInsertMethod)
	}
}

func (t *Tx) insertValues(ctx context.Context, table pgcsv.TableName, cols []pgcsv.Column, rows [][]any) (int64, error) {
	d := Dialect{}
	var inserted int64
	for _, part := range schema.SplitRows(rows, schema.RowsPerStatement(d, len(cols))) {
		stmt := schema.BuildInsert(d, table, cols, len(part))
		tag, err := t.tx.Exec(ctx, stmt, schema.FlattenArgs(part)...)
		if err != nil {
			return inserted, classify(fmt.Sprintf("insert into %s", table), err)
		}
		inserted += tag.RowsAffected()
	}
	t.logger.Verbose("inserted %d rows into %s with multi-row VALUES", inserted, table)
	return inserted, nil
}

func (t *Tx) insertBatch(ctx context.Context, table pgcsv.TableName, cols []pgcsv.Column, rows [][]any) (int64, error) {
	stmt := schema.BuildInsert(Dialect{}, table, cols, 1)
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(stmt, row...)
	}

	results := t.tx.SendBatch(ctx, batch)
	var inserted int64
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return inserted, classify(fmt.Sprintf("insert row %d into %s", i+1, table), err)
		}
		inserted += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return inserted, classify(fmt.Sprintf("insert into %s", table), err)
	}
	t.logger.Verbose("inserted %d rows into %s with a batch of single-row inserts", inserted, table)
	return inserted, nil
}

func (t *Tx) copyRows(ctx context.Context, table pgcsv.TableName, cols []pgcsv.Column, rows [][]any) (int64, error) {
	n, err := t.tx.CopyFrom(ctx, pgx.Identifier(table.Parts()), pgcsv.ColumnNames(cols), pgx.CopyFromRows(rows))
	if err != nil {
		return n, classify(fmt.Sprintf("copy into %s", table), err)
	}
	t.logger.Verbose("copied %d rows into %s", n, table)
	return n, nil
}

func (t *Tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return classify("commit", err)
	}
	return nil
}

// Rollback is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err == nil || errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return classify("rollback", err)
}
