package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgcsv/internal/store/postgres"
	"github.com/vvka-141/pgcsv/internal/store/sqlstore"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns is one: a run holds a single session for its whole lifetime.
	DefaultMaxConns = 1

	// DefaultMaxConnIdleTime keeps the session alive between slow chunks.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger pgcsv.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("server notice: %s", notice.Message)
	}
}

// openSession creates the pool, checks the server answers and pins one connection.
// cleanup runs when the returned store is closed or when opening fails; it may be nil.
func openSession(ctx context.Context, poolConfig *pgxpool.Config, config *pgcsv.ConnectionConfig, logger pgcsv.Logger, cleanup func()) (pgcsv.Store, error) {
	if cleanup == nil {
		cleanup = func() {}
	}
	configurePool(poolConfig, logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		cleanup()
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		cleanup()
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		cleanup()
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}

	release := func() {
		conn.Release()
		pool.Close()
		cleanup()
	}
	logger.Verbose("connected to %s", Redacted(config))
	return postgres.NewStore(conn, release, logger), nil
}

// StandardConnector implements the Connector interface for standard
// username/password authentication.
type StandardConnector struct {
	config *pgcsv.ConnectionConfig
	logger pgcsv.Logger
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *pgcsv.ConnectionConfig, logger pgcsv.Logger) *StandardConnector {
	return &StandardConnector{config: config, logger: logger}
}

// Dialect returns the PostgreSQL dialect.
func (c *StandardConnector) Dialect() pgcsv.Dialect {
	return postgres.Dialect{}
}

// Connect opens the session using standard authentication.
func (c *StandardConnector) Connect(ctx context.Context) (pgcsv.Store, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(c.config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", pgcsv.ErrInvalidConfig, err)
	}
	return openSession(ctx, poolConfig, c.config, c.logger, nil)
}

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's driver and AuthMethod.
// Panics if config or logger is nil.
func NewConnector(config *pgcsv.ConnectionConfig, logger pgcsv.Logger) (pgcsv.Connector, error) {
	if config == nil {
		panic("config cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	switch strings.ToLower(config.Driver) {
	case "", DriverPostgres, "postgresql":
	default:
		return sqlstore.NewConnector(config.Driver, config.DSN, logger)
	}

	switch config.AuthMethod {
	case pgcsv.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case pgcsv.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case pgcsv.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case pgcsv.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, pgcsv.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var headline, hints string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		headline = "connection refused to " + addr
		hints = fmt.Sprintf(`  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port
  - Firewall blocking the connection`, host, port)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		headline = fmt.Sprintf("cannot resolve host %q", host)
		hints = `  - Hostname is misspelled
  - DNS is not configured or reachable`

	case strings.Contains(errStr, "password authentication failed"):
		headline = fmt.Sprintf("password authentication failed for database %q", database)
		hints = `  - Wrong password (check $PGPASSWORD or the .env file)
  - Wrong username
  - Expired cloud token`

	case strings.Contains(errStr, "does not exist"):
		headline = fmt.Sprintf("database %q does not exist", database)
		hints = "  - Create it first: createdb " + database

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out") || strings.Contains(errStr, "deadline exceeded"):
		headline = "connection timed out to " + addr
		hints = `  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - connect_timeout or the run timeout is too short`

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		headline = "SSL/TLS connection error"
		hints = `  - Server requires SSL but sslmode is wrong
  - Certificate verification failed (try sslmode=require)`

	case strings.Contains(errStr, "too many connections"):
		headline = fmt.Sprintf("too many connections to database %q", database)
		hints = "  - max_connections limit reached in postgresql.conf"

	default:
		return fmt.Errorf("failed to connect to database: %w: %w", pgcsv.ErrConnectionFailed, err)
	}

	return fmt.Errorf("%s: %w\n\nPossible causes:\n%s\n\nOriginal error: %w", headline, pgcsv.ErrConnectionFailed, hints, err)
}

// newAWSConnector creates a token-based connector with the AWS IAM token provider.
func newAWSConnector(config *pgcsv.ConnectionConfig, logger pgcsv.Logger) (pgcsv.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", logger), nil
}

// newGoogleConnector creates a GoogleCloudSQLConnector for Google Cloud SQL IAM authentication.
func newGoogleConnector(config *pgcsv.ConnectionConfig, logger pgcsv.Logger) (pgcsv.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires google_instance (project:region:instance): %w", pgcsv.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a username: %w", pgcsv.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, logger), nil
}

// newAzureConnector creates a token-based connector with the Azure Entra ID token provider.
// If explicit credentials (tenant, client, secret) are provided, uses Service Principal auth.
// Otherwise, falls back to DefaultAzureCredential chain.
func newAzureConnector(config *pgcsv.ConnectionConfig, logger pgcsv.Logger) (pgcsv.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID,
			config.AzureClientID,
			config.AzureClientSecret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure", logger), nil
}
