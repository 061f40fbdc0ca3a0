package postgres

import (
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// maxBindParams is the protocol limit on parameters in one extended-protocol statement.
const maxBindParams = 65535

// Dialect renders PostgreSQL SQL.
type Dialect struct{}

var _ pgcsv.Dialect = Dialect{}

func (Dialect) Name() string { return "postgres" }

func (Dialect) QuoteIdentifier(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}

func (Dialect) Placeholder(position int) string {
	return "$" + strconv.Itoa(position)
}

func (Dialect) SQLType(t pgcsv.ColumnType) string {
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

func (Dialect) MaxBindParams() int { return maxBindParams }
