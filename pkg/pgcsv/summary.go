package pgcsv

import (
	"time"

	"github.com/google/uuid"
)

// LoadResult describes one committed load unit (a chunk or a single file).
type LoadResult struct {
	// Files lists the relative paths of the source files in the unit.
	Files []string

	// Columns is the descriptor list used for provisioning and insert.
	Columns []Column

	// Rows is the number of rows inserted.
	Rows int64

	// Provisioned is true when the CREATE TABLE IF NOT EXISTS statement ran.
	Provisioned bool
}

// RunSummary reports what a run did.
type RunSummary struct {
	RunID   uuid.UUID
	Mode    LoadMode
	Table   TableName
	Files   int
	Units   []LoadResult
	Rows    int64
	Elapsed time.Duration
}

// Committed returns the number of committed load units.
func (s RunSummary) Committed() int {
	return len(s.Units)
}

// PlannedChunk is one chunk of a dry-run plan.
type PlannedChunk struct {
	Index   int
	Files   []string
	Rows    int
	Columns []Column

	// Sample holds the first row of the chunk as it would be inserted, one
	// rendered value per column. Empty when the chunk has no rows.
	Sample []string
}

// Plan is the dry-run view of a job: what would be created and loaded.
type Plan struct {
	Mode   LoadMode
	Table  TableName
	Files  int
	Chunks []PlannedChunk

	// Dialect and FallbackType decide the column types the run would issue.
	Dialect      Dialect
	FallbackType string
}
