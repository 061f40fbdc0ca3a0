package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgcsv/internal/store/postgres"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// GoogleCloudSQLConnector implements the Connector interface for Google Cloud SQL
// using IAM database authentication via the Cloud SQL Go Connector.
// The dialer lives as long as the returned store and is closed with it.
type GoogleCloudSQLConnector struct {
	config   *pgcsv.ConnectionConfig
	instance string
	logger   pgcsv.Logger
}

// NewGoogleCloudSQLConnector creates a connector for Google Cloud SQL IAM authentication.
// instance is the instance connection name in format: project:region:instance
func NewGoogleCloudSQLConnector(config *pgcsv.ConnectionConfig, instance string, logger pgcsv.Logger) *GoogleCloudSQLConnector {
	return &GoogleCloudSQLConnector{
		config:   config,
		instance: instance,
		logger:   logger,
	}
}

func (c *GoogleCloudSQLConnector) Dialect() pgcsv.Dialect {
	return postgres.Dialect{}
}

// Connect opens the session through the Cloud SQL dialer, which handles
// authentication and TLS.
func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (pgcsv.Store, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w: %w", pgcsv.ErrConnectionFailed, err)
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s dbname=%s sslmode=disable application_name=%s",
		c.instance,
		c.config.Username,
		c.config.Database,
		c.config.AppName,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", pgcsv.ErrInvalidConfig, err)
	}

	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}

	return openSession(ctx, poolConfig, c.config, c.logger, func() { dialer.Close() })
}
