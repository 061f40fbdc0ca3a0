package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// testDialect renders PostgreSQL-style SQL with a small bind limit.
type testDialect struct {
	maxParams int
}

func (d testDialect) Name() string { return "test" }

func (d testDialect) QuoteIdentifier(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ".")
}

func (d testDialect) Placeholder(position int) string { return fmt.Sprintf("$%d", position) }

func (d testDialect) SQLType(t pgcsv.ColumnType) string {
	if t == pgcsv.ColumnFallback {
		return "TEXT"
	}
	return t.String()
}

func (d testDialect) MaxBindParams() int {
	if d.maxParams == 0 {
		return 65535
	}
	return d.maxParams
}

type recordingExecer struct {
	statements []string
	err        error
}

func (e *recordingExecer) Exec(ctx context.Context, sql string, args ...any) error {
	e.statements = append(e.statements, sql)
	return e.err
}

var errStoreRejected = errors.New("syntax error at or near \"select\"")
