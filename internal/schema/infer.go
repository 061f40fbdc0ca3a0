package schema

import (
	"strconv"
	"time"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// InferType derives the storage type of one column from its parsed values.
//
// Priority rule, applied after dropping NULLs:
//   - no values left: Fallback
//   - any string: Text
//   - only time.Time: Timestamp
//   - time.Time mixed with numbers: Text
//   - only int64: Numeric
//   - int64 and float64, or only float64: Float
//
// Values of any other Go type count as strings.
func InferType(values []any) pgcsv.ColumnType {
	var ints, floats, times, texts int
	for _, v := range values {
		switch v.(type) {
		case nil:
		case int64:
			ints++
		case float64:
			floats++
		case time.Time:
			times++
		default:
			texts++
		}
	}

	switch {
	case ints+floats+times+texts == 0:
		return pgcsv.ColumnFallback
	case texts > 0:
		return pgcsv.ColumnText
	case times > 0 && ints+floats == 0:
		return pgcsv.ColumnTimestamp
	case times > 0:
		return pgcsv.ColumnText
	case floats == 0:
		return pgcsv.ColumnNumeric
	default:
		return pgcsv.ColumnFloat
	}
}

// InferColumns pairs every batch column label with the type inferred over the batch.
// Labels are used as-is; normalize them first.
func InferColumns(batch *pgcsv.Batch) []pgcsv.Column {
	cols := make([]pgcsv.Column, len(batch.Columns))
	for i, name := range batch.Columns {
		cols[i] = pgcsv.Column{Name: name, Type: InferType(batch.ColumnValues(i))}
	}
	return cols
}

// CoerceRows converts the batch cells to the Go values the store receives for the
// inferred column types. Text and Fallback columns carry the raw text so that values
// like "007" are not rewritten.
func CoerceRows(batch *pgcsv.Batch, cols []pgcsv.Column) [][]any {
	rows := make([][]any, len(batch.Rows))
	for r, row := range batch.Rows {
		out := make([]any, len(cols))
		for i, col := range cols {
			out[i] = coerce(row[i], col.Type)
		}
		rows[r] = out
	}
	return rows
}

func coerce(c pgcsv.Cell, t pgcsv.ColumnType) any {
	if c.Value == nil {
		return nil
	}
	switch t {
	case pgcsv.ColumnNumeric:
		if v, ok := c.Value.(int64); ok {
			return v
		}
	case pgcsv.ColumnFloat:
		switch v := c.Value.(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		}
	case pgcsv.ColumnTimestamp:
		if v, ok := c.Value.(time.Time); ok {
			return v
		}
	}
	if s, ok := c.Value.(string); ok {
		return s
	}
	return c.Raw
}

// FormatValue renders a coerced value for plan output.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case string:
		return x
	default:
		return ""
	}
}
