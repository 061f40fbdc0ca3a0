package pgcsv

import "context"

// Dialect captures the SQL differences between supported stores.
type Dialect interface {
	// Name returns the driver name ("postgres", "sqlite", "mysql").
	Name() string

	// QuoteIdentifier quotes and joins identifier parts ("schema", "table").
	QuoteIdentifier(parts ...string) string

	// Placeholder returns the bind marker for the 1-based parameter position.
	Placeholder(position int) string

	// SQLType renders a column type. ColumnFallback renders the dialect default,
	// which callers may override with the configured fallback type.
	SQLType(t ColumnType) string

	// MaxBindParams is the largest number of bind parameters one statement may carry.
	MaxBindParams() int
}

// Execer executes a statement that returns no rows.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// Tx is the unit of work for one chunk: provisioning, insert and commit happen inside it.
// Thread-Safety: NOT safe for concurrent use.
type Tx interface {
	Execer

	// InsertRows appends rows to the table using the given method and returns the
	// number of rows written. rows must already be coerced to the column types and
	// every row must have len(cols) values. Zero rows is a no-op.
	InsertRows(ctx context.Context, table TableName, cols []Column, rows [][]any, method InsertMethod) (int64, error)

	// Commit makes the chunk durable.
	Commit(ctx context.Context) error

	// Rollback discards the chunk. Safe to call after Commit.
	Rollback(ctx context.Context) error
}

// ExistingColumn is a column as recorded in the store's catalog.
type ExistingColumn struct {
	Name    string
	SQLType string
}

// Store is an open session against the target relational store.
// A Store holds exactly one connection for its whole lifetime.
//
// Lifecycle:
//  1. Created by Connector.Connect()
//  2. Used sequentially by the orchestrator, one Tx per chunk
//  3. Released via Close() (idempotent)
type Store interface {
	// Dialect returns the SQL dialect of the store.
	Dialect() Dialect

	// Begin starts a transaction on the session connection.
	Begin(ctx context.Context) (Tx, error)

	// TableColumns returns the recorded columns of table in ordinal order,
	// or (nil, nil) if the table does not exist.
	TableColumns(ctx context.Context, table TableName) ([]ExistingColumn, error)

	// Close releases the connection. Safe to call multiple times.
	Close() error
}

// Connector opens a Store session.
// Different implementations handle drivers and authentication methods.
type Connector interface {
	Connect(ctx context.Context) (Store, error)

	// Dialect returns the SQL dialect of the stores this connector opens.
	// It never contacts the server.
	Dialect() Dialect
}
