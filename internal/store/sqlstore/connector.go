package sqlstore

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// Connector opens a database/sql store for one driver and DSN.
type Connector struct {
	driver  string
	dsn     string
	dialect pgcsv.Dialect
	logger  pgcsv.Logger
}

var _ pgcsv.Connector = (*Connector)(nil)

// NewConnector validates the driver name and returns a connector.
// Panics if logger is nil.
func NewConnector(driver, dsn string, logger pgcsv.Logger) (*Connector, error) {
	if logger == nil {
		panic("logger cannot be nil")
	}
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	return &Connector{driver: dialect.Name(), dsn: dsn, dialect: dialect, logger: logger}, nil
}

func (c *Connector) Dialect() pgcsv.Dialect {
	return c.dialect
}

// Connect opens the pool, verifies the server answers, and pins one connection.
func (c *Connector) Connect(ctx context.Context) (pgcsv.Store, error) {
	db, err := sql.Open(c.driver, c.dsn)
	if err != nil {
		return nil, connectError(c.driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, connectError(c.driver, err)
	}

	store, err := Open(ctx, db, c.dialect, c.logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	c.logger.Verbose("connected to %s", c.driver)
	return store, nil
}
