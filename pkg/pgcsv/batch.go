package pgcsv

import "time"

// SourceFile is a delimited text file discovered under the source root.
type SourceFile struct {
	// Path is the absolute (or provider-rooted) path used to read the file.
	Path string

	// RelativePath is the path relative to the source root, with forward slashes.
	RelativePath string

	// SizeBytes is the file size reported by the filesystem.
	SizeBytes int64

	// ModifiedAt is the last modification time.
	ModifiedAt time.Time
}

// Cell is one field of a Record Batch.
//
// Value holds the parsed value and is one of: nil (NULL), int64, float64,
// time.Time or string. Raw keeps the text as it appeared in the file so that
// numeric-looking values in a Text column are stored verbatim.
type Cell struct {
	Raw   string
	Value any
}

// IsNull reports whether the cell is a storage-level NULL.
func (c Cell) IsNull() bool {
	return c.Value == nil
}

// Batch is an in-memory Record Batch assembled from one or more source files.
// Every row has exactly len(Columns) cells.
type Batch struct {
	// Columns holds the column labels in order (raw until normalized).
	Columns []string

	// Rows holds the cells, row-major.
	Rows [][]Cell

	// Sources lists the relative paths of the files merged into this batch, in order.
	Sources []string
}

// Len returns the number of rows.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Rows)
}

// ColumnValues returns the parsed values of column i across all rows.
func (b *Batch) ColumnValues(i int) []any {
	values := make([]any, len(b.Rows))
	for r, row := range b.Rows {
		values[r] = row[i].Value
	}
	return values
}
