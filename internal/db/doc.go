// Package db resolves connection parameters and opens store sessions.
//
// ResolveConnection merges the --connection flag, environment variables and
// the job file into one pgcsv.ConnectionConfig. NewConnector turns that config
// into a pgcsv.Connector:
//
//   - postgres with standard, AWS RDS IAM, Azure Entra ID or Google Cloud SQL
//     IAM authentication (pgx pool capped at one connection)
//   - sqlite and mysql through database/sql (see internal/store/sqlstore)
//
// Connect never retries. A failed connection is reported once, wrapped with
// pgcsv.ErrConnectionFailed and a hint about the likely cause.
package db
