package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// Conn is the part of a pgx connection the store uses.
// *pgxpool.Conn and *pgx.Conn both satisfy it.
type Conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store is a pgcsv.Store bound to one connection.
// Thread-Safety: NOT safe for concurrent use, except Close.
type Store struct {
	conn    Conn
	release func()
	logger  pgcsv.Logger

	closeOnce sync.Once
}

var _ pgcsv.Store = (*Store)(nil)

// NewStore wraps conn. release runs once on Close and must return the connection
// and free anything the connector allocated (pool, dialer). It may be nil.
// Panics if conn or logger is nil.
func NewStore(conn Conn, release func(), logger pgcsv.Logger) *Store {
	if conn == nil {
		panic("conn cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Store{conn: conn, release: release, logger: logger}
}

func (s *Store) Dialect() pgcsv.Dialect { return Dialect{} }

func (s *Store) Begin(ctx context.Context) (pgcsv.Tx, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, classify("begin transaction", err)
	}
	return &Tx{tx: tx, logger: s.logger}, nil
}

const tableColumnsQuery = `
SELECT column_name, data_type
FROM information_schema.columns
WHERE table_schema = COALESCE(NULLIF($1, ''), current_schema())
  AND table_name = $2
ORDER BY ordinal_position`

func (s *Store) TableColumns(ctx context.Context, table pgcsv.TableName) ([]pgcsv.ExistingColumn, error) {
	rows, err := s.conn.Query(ctx, tableColumnsQuery, table.Schema, table.Name)
	if err != nil {
		return nil, classify(fmt.Sprintf("read columns of %s", table), err)
	}
	cols, err := pgx.CollectRows(rows, pgx.RowToStructByPos[pgcsv.ExistingColumn])
	if err != nil {
		return nil, classify(fmt.Sprintf("read columns of %s", table), err)
	}
	if len(cols) == 0 {
		return nil, nil
	}
	return cols, nil
}

// Close releases the connection. Safe to call multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
	return nil
}
