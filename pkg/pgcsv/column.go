package pgcsv

import (
	"fmt"
	"strings"
)

// ColumnType is the storage type inferred for a column.
// The set is closed: every column maps to exactly one of these variants.
type ColumnType int

const (
	ColumnFallback  ColumnType = iota // No value kind observed (empty or all-NULL column)
	ColumnText                        // Textual or mixed values
	ColumnFloat                       // Floating-point values, or integers mixed with floats
	ColumnNumeric                     // Integer values only
	ColumnTimestamp                   // Date/time values only
)

// String returns the canonical SQL label of the type.
// ColumnFallback has no fixed label; dialects and configuration decide how it renders.
func (t ColumnType) String() string {
	switch t {
	case ColumnText:
		return "TEXT"
	case ColumnFloat:
		return "FLOAT"
	case ColumnNumeric:
		return "NUMERIC"
	case ColumnTimestamp:
		return "TIMESTAMP"
	case ColumnFallback:
		return "FALLBACK"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// IsValid returns true if the ColumnType is one of the defined variants.
func (t ColumnType) IsValid() bool {
	return t >= ColumnFallback && t <= ColumnTimestamp
}

// Column is a column descriptor: the normalized identifier plus its inferred type.
// An ordered []Column is the single source of truth for both the CREATE TABLE
// and the INSERT column lists.
type Column struct {
	Name string
	Type ColumnType
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// TableName identifies the target relation, optionally schema-qualified.
type TableName struct {
	Schema string
	Name   string
}

// ParseTableName splits "schema.table" or "table" into a TableName.
func ParseTableName(s string) (TableName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TableName{}, fmt.Errorf("table name is empty: %w", ErrInvalidConfig)
	}
	parts := strings.Split(s, ".")
	switch len(parts) {
	case 1:
		return TableName{Name: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return TableName{}, fmt.Errorf("invalid table name %q: %w", s, ErrInvalidConfig)
		}
		return TableName{Schema: parts[0], Name: parts[1]}, nil
	default:
		return TableName{}, fmt.Errorf("invalid table name %q: at most one schema qualifier allowed: %w", s, ErrInvalidConfig)
	}
}

// Parts returns the identifier parts in qualification order.
func (t TableName) Parts() []string {
	if t.Schema == "" {
		return []string{t.Name}
	}
	return []string{t.Schema, t.Name}
}

func (t TableName) String() string {
	return strings.Join(t.Parts(), ".")
}
