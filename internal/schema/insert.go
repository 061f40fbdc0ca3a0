package schema

import (
	"fmt"
	"strings"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// RowsPerStatement returns how many rows of width columns fit into one multi-row
// INSERT under the dialect's bind-parameter limit. It is at least 1.
func RowsPerStatement(d pgcsv.Dialect, columns int) int {
	if columns <= 0 {
		return 1
	}
	return max(d.MaxBindParams()/columns, 1)
}

// BuildInsert renders INSERT INTO table (cols...) VALUES with rows placeholder tuples.
func BuildInsert(d pgcsv.Dialect, table pgcsv.TableName, cols []pgcsv.Column, rows int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(d.QuoteIdentifier(table.Parts()...))
	sb.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.QuoteIdentifier(c.Name))
	}
	sb.WriteString(") VALUES ")

	pos := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for i := range cols {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.Placeholder(pos))
			pos++
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// SplitRows yields consecutive slices of at most size rows.
func SplitRows(rows [][]any, size int) [][][]any {
	if size <= 0 {
		size = len(rows)
	}
	var out [][][]any
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		out = append(out, rows[start:end])
	}
	return out
}

// FlattenArgs lays rows out as one argument list, row-major.
func FlattenArgs(rows [][]any) []any {
	if len(rows) == 0 {
		return nil
	}
	args := make([]any, 0, len(rows)*len(rows[0]))
	for _, r := range rows {
		args = append(args, r...)
	}
	return args
}

// CheckRowWidths verifies every row has one value per column.
func CheckRowWidths(cols []pgcsv.Column, rows [][]any) error {
	for i, r := range rows {
		if len(r) != len(cols) {
			return fmt.Errorf("row %d has %d values for %d columns: %w", i+1, len(r), len(cols), pgcsv.ErrSchema)
		}
	}
	return nil
}
