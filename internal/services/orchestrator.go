package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/pgcsv/internal/files/scanner"
	"github.com/vvka-141/pgcsv/internal/schema"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// FileScanner discovers source files under a root directory.
type FileScanner interface {
	Discover(root, ext string) ([]pgcsv.SourceFile, error)
}

// Orchestrator runs one load job: discovery, session management and the
// chunked or per-file load loop.
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
type Orchestrator struct {
	job       pgcsv.JobConfig
	connector pgcsv.Connector
	scanner   FileScanner
	loader    *BatchLoader
	logger    pgcsv.Logger
}

// NewOrchestrator creates an Orchestrator with all dependencies injected.
// job must already be validated. Panics on nil dependencies.
func NewOrchestrator(
	job pgcsv.JobConfig,
	connector pgcsv.Connector,
	fileScanner FileScanner,
	reader BatchReader,
	logger pgcsv.Logger,
) *Orchestrator {
	if connector == nil {
		panic("connector cannot be nil")
	}
	if fileScanner == nil {
		panic("fileScanner cannot be nil")
	}
	if reader == nil {
		panic("reader cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &Orchestrator{
		job:       job,
		connector: connector,
		scanner:   fileScanner,
		loader:    NewBatchLoader(reader, job, logger),
		logger:    logger,
	}
}

// Run executes the job. Units committed before a failure stay committed and
// are reported in the returned summary alongside the error.
func (o *Orchestrator) Run(ctx context.Context) (pgcsv.RunSummary, error) {
	start := time.Now()
	summary := pgcsv.RunSummary{
		RunID: uuid.New(),
		Mode:  o.job.Mode,
		Table: o.job.Table,
	}
	files, err := o.discover()
	if err != nil {
		return finish(&summary, start), err
	}
	summary.Files = len(files)

	if len(files) == 0 {
		o.logger.Info("No %s files found under %s, nothing to load", o.job.Extension, o.job.SourcePath)
		return finish(&summary, start), nil
	}
	o.logger.Verbose("Run %s: %d files, mode %s", summary.RunID, len(files), o.job.Mode)

	store, err := o.connector.Connect(ctx)
	if err != nil {
		return finish(&summary, start), err
	}
	defer func() {
		if err := store.Close(); err != nil {
			o.logger.Error("failed to close session: %v", err)
		}
	}()

	switch o.job.Mode {
	case pgcsv.ModePerFile:
		err = o.runPerFile(ctx, store, files, &summary)
	default:
		err = o.runChunked(ctx, store, files, &summary)
	}
	return finish(&summary, start), err
}

func finish(summary *pgcsv.RunSummary, start time.Time) pgcsv.RunSummary {
	summary.Rows = 0
	for _, u := range summary.Units {
		summary.Rows += u.Rows
	}
	summary.Elapsed = time.Since(start)
	return *summary
}

func (o *Orchestrator) discover() ([]pgcsv.SourceFile, error) {
	files, err := o.scanner.Discover(o.job.SourcePath, o.job.Extension)
	if err != nil {
		return nil, fmt.Errorf("discover source files: %w: %w", pgcsv.ErrInvalidConfig, err)
	}
	return files, nil
}

// runChunked merges each chunk into one batch and commits once per chunk.
func (o *Orchestrator) runChunked(ctx context.Context, store pgcsv.Store, files []pgcsv.SourceFile, summary *pgcsv.RunSummary) error {
	chunks := scanner.Chunk(files, o.job.ChunkSize)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run stopped before chunk %d/%d: %w", i+1, len(chunks), err)
		}

		result, err := o.loader.Load(ctx, store, chunk)
		if err != nil {
			return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		summary.Units = append(summary.Units, result)
		o.logger.Info("✓ Chunk %d/%d: %d files, %d rows", i+1, len(chunks), len(chunk), result.Rows)
	}
	return nil
}

// runPerFile parses every file up front, then stores each one as its own unit.
func (o *Orchestrator) runPerFile(ctx context.Context, store pgcsv.Store, files []pgcsv.SourceFile, summary *pgcsv.RunSummary) error {
	batches := make([]*pgcsv.Batch, len(files))
	for i, f := range files {
		b, err := o.loader.Read([]pgcsv.SourceFile{f})
		if err != nil {
			return err
		}
		batches[i] = b
	}

	for i, b := range batches {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run stopped before file %d/%d: %w", i+1, len(batches), err)
		}

		result, err := o.loader.Store(ctx, store, b)
		if err != nil {
			return fmt.Errorf("file %s: %w", files[i].RelativePath, err)
		}
		summary.Units = append(summary.Units, result)
		o.logger.Info("✓ %s: %d rows", files[i].RelativePath, result.Rows)
	}
	return nil
}

// Plan discovers, chunks, parses and infers without touching the store.
func (o *Orchestrator) Plan(ctx context.Context) (pgcsv.Plan, error) {
	plan := pgcsv.Plan{
		Mode:         o.job.Mode,
		Table:        o.job.Table,
		Dialect:      o.connector.Dialect(),
		FallbackType: o.job.FallbackType,
	}

	files, err := o.discover()
	if err != nil {
		return plan, err
	}
	plan.Files = len(files)

	size := o.job.ChunkSize
	if o.job.Mode == pgcsv.ModePerFile {
		size = 1
	}

	for i, chunk := range scanner.Chunk(files, size) {
		if err := ctx.Err(); err != nil {
			return plan, err
		}

		batch, err := o.loader.Read(chunk)
		if err != nil {
			return plan, err
		}
		cols, err := o.loader.Describe(batch)
		if err != nil {
			return plan, err
		}
		plan.Chunks = append(plan.Chunks, pgcsv.PlannedChunk{
			Index:   i + 1,
			Files:   batch.Sources,
			Rows:    batch.Len(),
			Columns: cols,
			Sample:  sampleRow(batch, cols),
		})
	}
	return plan, nil
}

// sampleRow renders the first row of batch coerced to cols.
func sampleRow(batch *pgcsv.Batch, cols []pgcsv.Column) []string {
	if batch.Len() == 0 {
		return nil
	}
	first := schema.CoerceRows(&pgcsv.Batch{Columns: batch.Columns, Rows: batch.Rows[:1]}, cols)[0]
	sample := make([]string, len(first))
	for i, v := range first {
		sample[i] = schema.FormatValue(v)
	}
	return sample
}
