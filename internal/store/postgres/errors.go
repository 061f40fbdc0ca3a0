package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// SQLSTATE classes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgClassConnectionException  = "08"
	pgClassDataException        = "22"
	pgClassSyntaxOrAccessRule   = "42"
	pgClassOperatorIntervention = "57"
)

// classify maps a store error onto the load error taxonomy. Data exceptions and
// syntax/access-rule violations are schema errors; everything else failed the load.
// The original error stays in the chain, so context.Canceled remains detectable.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, pgClassDataException),
			strings.HasPrefix(pgErr.Code, pgClassSyntaxOrAccessRule):
			return fmt.Errorf("%s: %w: %w", op, pgcsv.ErrSchema, pgErr)
		case strings.HasPrefix(pgErr.Code, pgClassConnectionException),
			strings.HasPrefix(pgErr.Code, pgClassOperatorIntervention):
			return fmt.Errorf("%s: %w: connection lost: %w", op, pgcsv.ErrLoadFailed, pgErr)
		default:
			return fmt.Errorf("%s: %w: %w", op, pgcsv.ErrLoadFailed, pgErr)
		}
	}

	return fmt.Errorf("%s: %w: %w", op, pgcsv.ErrLoadFailed, err)
}
