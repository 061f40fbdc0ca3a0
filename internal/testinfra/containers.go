// Package testinfra starts throwaway database servers for integration tests.
package testinfra

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ImageEnv overrides the PostgreSQL image, e.g. postgres:13-alpine for the oldest supported server.
const ImageEnv = "PGCSV_TEST_PG_IMAGE"

const (
	DefaultPostgresImage = "postgres:17-alpine"
	PostgresUser         = "postgres"
	PostgresPassword     = "postgres"
	PostgresDB           = "postgres"
)

// PostgresContainer is a running server plus a connection string for its default database.
type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// PostgresImage returns the image integration tests run against.
func PostgresImage() string {
	if image := os.Getenv(ImageEnv); image != "" {
		return image
	}
	return DefaultPostgresImage
}

// StartPostgres runs a plain PostgreSQL server without TLS. The server lives
// until the test binary exits; Ryuk reaps it afterwards.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	image := PostgresImage()
	ctr, err := postgres.Run(ctx,
		image,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", image, err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable", "application_name=pgcsv-test")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}
