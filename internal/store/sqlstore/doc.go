// Package sqlstore implements pgcsv.Store over database/sql for SQLite
// (modernc.org/sqlite, no cgo) and MySQL (go-sql-driver/mysql).
//
// The *sql.DB is capped at one open connection and the store pins it with
// db.Conn for the whole run. COPY is not available; InsertCopy fails with
// pgcsv.ErrUnsupportedInsertMethod.
package sqlstore
