package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/pgcsv/internal/csvread"
	"github.com/vvka-141/pgcsv/internal/schema"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// BatchReader parses one source file into a Record Batch.
type BatchReader interface {
	ReadFile(file pgcsv.SourceFile) (*pgcsv.Batch, error)
}

// BatchLoader turns a group of source files into one committed load unit.
// Thread-Safety: NOT safe for concurrent use; the store session it writes to is single-connection.
type BatchLoader struct {
	reader BatchReader
	job    pgcsv.JobConfig
	logger pgcsv.Logger
}

// NewBatchLoader creates a loader for the job's table and insert settings.
// Panics if reader or logger is nil.
func NewBatchLoader(reader BatchReader, job pgcsv.JobConfig, logger pgcsv.Logger) *BatchLoader {
	if reader == nil {
		panic("reader cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &BatchLoader{reader: reader, job: job, logger: logger}
}

// Read parses every file of the group in order and merges them into one batch
// with normalized column labels.
func (l *BatchLoader) Read(files []pgcsv.SourceFile) (*pgcsv.Batch, error) {
	batches := make([]*pgcsv.Batch, 0, len(files))
	for _, f := range files {
		b, err := l.reader.ReadFile(f)
		if err != nil {
			return nil, err
		}
		l.logger.Info("✓ Read %s: %d rows, %d columns", f.RelativePath, b.Len(), len(b.Columns))
		batches = append(batches, b)
	}

	batch := csvread.Merge(batches, l.job.Parse.Columns)
	batch.Columns = schema.NormalizeLabels(batch.Columns)
	return batch, nil
}

// Describe infers the ordered descriptor list of a normalized batch. Duplicate
// names are reported here so the store never sees an ambiguous CREATE or INSERT.
func (l *BatchLoader) Describe(batch *pgcsv.Batch) ([]pgcsv.Column, error) {
	if dups := schema.DuplicateLabels(batch.Columns); len(dups) > 0 {
		return nil, fmt.Errorf("files %v: duplicate column names after normalization: %v: %w", batch.Sources, dups, pgcsv.ErrSchema)
	}
	return schema.InferColumns(batch), nil
}

// Load reads, merges and stores one group of files as a single transaction.
func (l *BatchLoader) Load(ctx context.Context, store pgcsv.Store, files []pgcsv.SourceFile) (pgcsv.LoadResult, error) {
	batch, err := l.Read(files)
	if err != nil {
		return pgcsv.LoadResult{}, err
	}
	return l.Store(ctx, store, batch)
}

// Store provisions the table and inserts the batch inside one transaction.
//
// A batch with no columns touches nothing. A batch with columns but no rows
// still provisions the table and commits. Under the strict schema policy the
// table's recorded columns are checked before the transaction starts.
func (l *BatchLoader) Store(ctx context.Context, store pgcsv.Store, batch *pgcsv.Batch) (pgcsv.LoadResult, error) {
	result := pgcsv.LoadResult{Files: batch.Sources}

	cols, err := l.Describe(batch)
	if err != nil {
		return result, err
	}
	result.Columns = cols
	if len(cols) == 0 {
		l.logger.Verbose("Skipping %v: no columns", batch.Sources)
		return result, nil
	}

	dialect := store.Dialect()
	table := l.job.Table

	if l.job.SchemaPolicy == pgcsv.PolicyStrict {
		existing, err := store.TableColumns(ctx, table)
		if err != nil {
			return result, err
		}
		if err := schema.CheckDrift(dialect, table, existing, cols, l.job.FallbackType); err != nil {
			return result, err
		}
	}

	tx, err := store.Begin(ctx)
	if err != nil {
		return result, err
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			l.logger.Verbose("rollback: %v", rbErr)
		}
	}()

	provisioner := schema.NewProvisioner(dialect, l.job.FallbackType, l.logger)
	if err := provisioner.Provision(ctx, tx, table, cols); err != nil {
		return result, err
	}
	result.Provisioned = true

	if batch.Len() > 0 {
		rows := schema.CoerceRows(batch, cols)
		n, err := tx.InsertRows(ctx, table, cols, rows, l.job.InsertMethod)
		if err != nil {
			return result, err
		}
		result.Rows = n
	}

	if err := tx.Commit(ctx); err != nil {
		result.Rows = 0
		return result, err
	}
	return result, nil
}
