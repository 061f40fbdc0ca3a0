package sqlstore

import (
	"fmt"
	"strings"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// SQLiteDialect renders SQLite SQL.
type SQLiteDialect struct{}

var _ pgcsv.Dialect = SQLiteDialect{}

func (SQLiteDialect) Name() string { return DriverSQLite }

func (SQLiteDialect) QuoteIdentifier(parts ...string) string {
	return quoteParts(`"`, parts)
}

func (SQLiteDialect) Placeholder(int) string { return "?" }

func (SQLiteDialect) SQLType(t pgcsv.ColumnType) string {
	switch t {
	case pgcsv.ColumnFloat:
		return "FLOAT"
	case pgcsv.ColumnNumeric:
		return "NUMERIC"
	case pgcsv.ColumnTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// MaxBindParams is SQLITE_MAX_VARIABLE_NUMBER as compiled into modernc.org/sqlite.
func (SQLiteDialect) MaxBindParams() int { return 32766 }

// MySQLDialect renders MySQL SQL.
type MySQLDialect struct{}

var _ pgcsv.Dialect = MySQLDialect{}

func (MySQLDialect) Name() string { return DriverMySQL }

func (MySQLDialect) QuoteIdentifier(parts ...string) string {
	return quoteParts("`", parts)
}

func (MySQLDialect) Placeholder(int) string { return "?" }

func (MySQLDialect) SQLType(t pgcsv.ColumnType) string {
	switch t {
	case pgcsv.ColumnFloat:
		return "DOUBLE"
	case pgcsv.ColumnNumeric:
		return "DECIMAL(65,0)"
	case pgcsv.ColumnTimestamp:
		return "DATETIME(6)"
	default:
		return "TEXT"
	}
}

func (MySQLDialect) MaxBindParams() int { return 65535 }

// DialectFor returns the dialect of a database/sql driver name.
func DialectFor(driver string) (pgcsv.Dialect, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite, "sqlite3":
		return SQLiteDialect{}, nil
	case DriverMySQL:
		return MySQLDialect{}, nil
	default:
		return nil, fmt.Errorf("driver %q must be sqlite or mysql: %w", driver, pgcsv.ErrInvalidConfig)
	}
}

func quoteParts(quote string, parts []string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = quote + strings.ReplaceAll(p, quote, quote+quote) + quote
	}
	return strings.Join(quoted, ".")
}
