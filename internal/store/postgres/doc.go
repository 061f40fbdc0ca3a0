// Package postgres implements pgcsv.Store on a single pgx connection.
//
// The store holds one connection acquired from a pool capped at one connection.
// Every chunk runs in its own transaction; rows are written with multi-row
// INSERT ... VALUES, a pgx.Batch of single-row inserts, or COPY FROM STDIN.
package postgres
