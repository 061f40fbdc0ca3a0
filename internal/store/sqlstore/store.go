package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// Store is a pgcsv.Store over one pinned database/sql connection.
// Thread-Safety: NOT safe for concurrent use, except Close.
type Store struct {
	db      *sql.DB
	conn    *sql.Conn
	dialect pgcsv.Dialect
	logger  pgcsv.Logger

	closeOnce sync.Once
	closeErr  error
}

var _ pgcsv.Store = (*Store)(nil)

// Open caps db at one connection and pins it for the store's lifetime.
// The store owns db and closes it on Close.
// Panics if db, dialect or logger is nil.
func Open(ctx context.Context, db *sql.DB, dialect pgcsv.Dialect, logger pgcsv.Logger) (*Store, error) {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	db.SetMaxOpenConns(1)
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, connectError(dialect.Name(), err)
	}
	return &Store{db: db, conn: conn, dialect: dialect, logger: logger}, nil
}

func (s *Store) Dialect() pgcsv.Dialect { return s.dialect }

func (s *Store) Begin(ctx context.Context) (pgcsv.Tx, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("begin transaction", err)
	}
	return &Tx{tx: tx, dialect: s.dialect, logger: s.logger}, nil
}

func (s *Store) TableColumns(ctx context.Context, table pgcsv.TableName) ([]pgcsv.ExistingColumn, error) {
	var (
		query string
		args  []any
	)
	switch s.dialect.(type) {
	case MySQLDialect:
		query = `SELECT COLUMN_NAME, COLUMN_TYPE FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = COALESCE(NULLIF(?, ''), DATABASE()) AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION`
		args = []any{table.Schema, table.Name}
	default:
		if table.Schema != "" {
			query = `SELECT name, type FROM pragma_table_info(?, ?) ORDER BY cid`
			args = []any{table.Name, table.Schema}
		} else {
			query = `SELECT name, type FROM pragma_table_info(?) ORDER BY cid`
			args = []any{table.Name}
		}
	}

	op := fmt.Sprintf("read columns of %s", table)
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	var cols []pgcsv.ExistingColumn
	for rows.Next() {
		var c pgcsv.ExistingColumn
		if err := rows.Scan(&c.Name, &c.SQLType); err != nil {
			return nil, classify(op, err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return cols, nil
}

// Close releases the pinned connection and closes the pool. Safe to call multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		connErr := s.conn.Close()
		dbErr := s.db.Close()
		if connErr != nil {
			s.closeErr = connErr
		} else {
			s.closeErr = dbErr
		}
	})
	return s.closeErr
}
