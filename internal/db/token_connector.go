package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgcsv/internal/store/postgres"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// tokenExpiryWarning is how close to expiry a freshly issued token triggers a warning.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
// The token is acquired from a TokenProvider and used as the PostgreSQL password.
// The token only has to be valid at connect time; the session outlives it.
type TokenBasedConnector struct {
	config        *pgcsv.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
	logger        pgcsv.Logger
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in error/warning messages (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(config *pgcsv.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger pgcsv.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		logger:        logger,
	}
}

func (c *TokenBasedConnector) Dialect() pgcsv.Dialect {
	return postgres.Dialect{}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (pgcsv.Store, error) {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s token: %w: %w", c.providerName, pgcsv.ErrConnectionFailed, err)
	}
	c.logger.Verbose("acquired token from %s", c.tokenProvider)

	if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
		c.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
	}

	configWithToken := *c.config
	configWithToken.Password = token

	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(&configWithToken))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", pgcsv.ErrInvalidConfig, err)
	}
	return openSession(ctx, poolConfig, c.config, c.logger, nil)
}
