package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// SQLite primary result codes, see https://www.sqlite.org/rescode.html
const (
	sqliteError      = 1
	sqliteConstraint = 19
	sqliteMismatch   = 20
	sqliteRange      = 25
)

// MySQL server error numbers that mean the batch does not fit the table.
var mysqlSchemaErrors = map[uint16]bool{
	1054: true, // unknown column
	1060: true, // duplicate column name
	1064: true, // syntax error
	1136: true, // column count doesn't match value count
	1166: true, // incorrect column name
	1264: true, // out of range value
	1292: true, // incorrect datetime value
	1366: true, // incorrect decimal/integer value
	1406: true, // data too long
}

// classify maps a driver error onto the load error taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqliteError, sqliteConstraint, sqliteMismatch, sqliteRange:
			return fmt.Errorf("%s: %w: %w", op, pgcsv.ErrSchema, liteErr)
		}
		return fmt.Errorf("%s: %w: %w", op, pgcsv.ErrLoadFailed, liteErr)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if mysqlSchemaErrors[myErr.Number] {
			return fmt.Errorf("%s: %w: %w", op, pgcsv.ErrSchema, myErr)
		}
		return fmt.Errorf("%s: %w: %w", op, pgcsv.ErrLoadFailed, myErr)
	}

	return fmt.Errorf("%s: %w: %w", op, pgcsv.ErrLoadFailed, err)
}

// connectError reports a failure to open or ping the store. Rejected
// credentials are reported without the server's account details.
func connectError(driver string, err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1045 {
		return fmt.Errorf("failed to connect to %s: %w: access denied: check the username and password in the DSN",
			driver, pgcsv.ErrConnectionFailed)
	}
	if strings.Contains(err.Error(), "unable to open database file") {
		return fmt.Errorf("failed to connect to %s: %w: %w (does the directory exist?)", driver, pgcsv.ErrConnectionFailed, err)
	}
	return fmt.Errorf("failed to connect to %s: %w: %w", driver, pgcsv.ErrConnectionFailed, err)
}
