package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// BuildCreateTable renders the create-if-missing statement for table with one
// definition per column, in order. Fallback columns use fallbackSQL when it is set.
func BuildCreateTable(d pgcsv.Dialect, table pgcsv.TableName, cols []pgcsv.Column, fallbackSQL string) (string, error) {
	if len(cols) == 0 {
		return "", fmt.Errorf("table %s: no columns to create: %w", table, pgcsv.ErrSchema)
	}
	if err := validateColumns(cols); err != nil {
		return "", fmt.Errorf("table %s: %w", table, err)
	}

	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = d.QuoteIdentifier(c.Name) + " " + ColumnSQLType(d, c.Type, fallbackSQL)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		d.QuoteIdentifier(table.Parts()...), strings.Join(defs, ", ")), nil
}

// ColumnSQLType renders t for the dialect, substituting fallbackSQL for Fallback.
func ColumnSQLType(d pgcsv.Dialect, t pgcsv.ColumnType, fallbackSQL string) string {
	if t == pgcsv.ColumnFallback && fallbackSQL != "" {
		return fallbackSQL
	}
	return d.SQLType(t)
}

func validateColumns(cols []pgcsv.Column) error {
	names := make([]string, len(cols))
	for i, c := range cols {
		if c.Name == "" {
			return fmt.Errorf("column %d has an empty name: %w", i+1, pgcsv.ErrSchema)
		}
		if !c.Type.IsValid() {
			return fmt.Errorf("column %q has unknown type %d: %w", c.Name, int(c.Type), pgcsv.ErrSchema)
		}
		names[i] = c.Name
	}
	if dups := DuplicateLabels(names); len(dups) > 0 {
		return fmt.Errorf("duplicate column names after normalization: %s: %w",
			strings.Join(dups, ", "), pgcsv.ErrSchema)
	}
	return nil
}

// Provisioner issues the create-if-missing statement for a target table.
// It never alters or diffs an existing table.
type Provisioner struct {
	dialect     pgcsv.Dialect
	fallbackSQL string
	logger      pgcsv.Logger
}

// NewProvisioner creates a Provisioner for the dialect.
// fallbackSQL overrides the dialect's Fallback type when non-empty.
// Panics if dialect or logger is nil (programmer error).
func NewProvisioner(dialect pgcsv.Dialect, fallbackSQL string, logger pgcsv.Logger) *Provisioner {
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Provisioner{dialect: dialect, fallbackSQL: fallbackSQL, logger: logger}
}

// Provision creates table with cols if it does not exist.
// A store rejection is reported as ErrSchema unless the executor already classified it.
func (p *Provisioner) Provision(ctx context.Context, exec pgcsv.Execer, table pgcsv.TableName, cols []pgcsv.Column) error {
	stmt, err := BuildCreateTable(p.dialect, table, cols, p.fallbackSQL)
	if err != nil {
		return err
	}

	p.logger.Verbose("%s", stmt)
	if err := exec.Exec(ctx, stmt); err != nil {
		if isClassified(err) {
			return fmt.Errorf("provision table %s: %w", table, err)
		}
		return fmt.Errorf("provision table %s: %w: %w", table, pgcsv.ErrSchema, err)
	}
	return nil
}

func isClassified(err error) bool {
	return errors.Is(err, pgcsv.ErrSchema) ||
		errors.Is(err, pgcsv.ErrLoadFailed) ||
		errors.Is(err, pgcsv.ErrConnectionFailed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
