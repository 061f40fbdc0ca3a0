package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/pgcsv/internal/config"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// DriverPostgres is the default driver.
const DriverPostgres = "postgres"

// EnvVars represents the connection-related environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string // PostgreSQL server host
	PGPORT       string // PostgreSQL server port
	PGUSER       string // PostgreSQL username
	PGPASSWORD   string // PostgreSQL password
	PGDATABASE   string // Default database name
	PGSSLMODE    string // SSL mode
	DATABASE_URL string // Full connection string (Heroku/Rails convention)

	AWS_REGION string // Region for RDS IAM tokens

	// Azure Entra ID environment variables (Azure SDK standard names)
	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment loads connection and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// HasAzureCredentials returns true if Azure Entra ID environment variables are set.
func (e *EnvVars) HasAzureCredentials() bool {
	return e.AZURE_TENANT_ID != "" || e.AZURE_CLIENT_ID != ""
}

// ResolveConnection resolves connection parameters with this precedence:
//
//  1. Connection string flag (--connection)
//  2. DATABASE_URL environment variable
//  3. dsn in the job file
//  4. Per field: PG* environment variable > job file > default (localhost:5432, prefer SSL)
//
// Authentication settings come from the job file whichever path wins, with
// AWS_REGION and AZURE_* as fallbacks. Passwords are only taken from the
// connection string or PGPASSWORD.
func ResolveConnection(connStringFlag string, envVars *EnvVars, fileConfig *config.ConnectionConfig) (*pgcsv.ConnectionConfig, error) {
	if envVars == nil {
		envVars = &EnvVars{}
	}
	if fileConfig == nil {
		fileConfig = &config.ConnectionConfig{}
	}

	var (
		cfg *pgcsv.ConnectionConfig
		err error
	)
	switch {
	case connStringFlag != "":
		cfg, err = ParseConnectionString(connStringFlag)
	case envVars.DATABASE_URL != "":
		cfg, err = ParseConnectionString(envVars.DATABASE_URL)
	case fileConfig.DSN != "":
		cfg, err = resolveFromDSN(fileConfig)
	default:
		cfg, err = resolveFromGranularParams(envVars, fileConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	if cfg.Driver != DriverPostgres {
		if cfg.DSN == "" {
			return nil, fmt.Errorf("driver %s requires a dsn: %w", cfg.Driver, pgcsv.ErrInvalidConfig)
		}
		return cfg, nil
	}

	if cfg.Password == "" {
		cfg.Password = envVars.PGPASSWORD
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = fileConfig.SSLMode
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}
	if cfg.AppName == "" {
		cfg.AppName = fileConfig.AppName
	}
	if cfg.AppName == "" {
		cfg.AppName = pgcsv.DefaultAppName
	}
	if cfg.ConnectTimeout == 0 && fileConfig.ConnectTimeout != "" {
		timeout, err := time.ParseDuration(fileConfig.ConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid connect_timeout %q: %w", fileConfig.ConnectTimeout, pgcsv.ErrInvalidConfig)
		}
		cfg.ConnectTimeout = timeout
	}

	if err := applyCloudAuth(cfg, fileConfig, envVars); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveFromDSN handles a job file that names a driver and its data source name.
func resolveFromDSN(fc *config.ConnectionConfig) (*pgcsv.ConnectionConfig, error) {
	driver := strings.ToLower(fc.Driver)
	if driver == "" || driver == DriverPostgres || driver == "postgresql" {
		return ParseConnectionString(fc.DSN)
	}
	return &pgcsv.ConnectionConfig{Driver: driver, DSN: fc.DSN}, nil
}

// resolveFromGranularParams builds a postgres config field by field.
// Precedence for each parameter: environment variable > job file > default.
func resolveFromGranularParams(envVars *EnvVars, fc *config.ConnectionConfig) (*pgcsv.ConnectionConfig, error) {
	if driver := strings.ToLower(fc.Driver); driver != "" && driver != DriverPostgres && driver != "postgresql" {
		return &pgcsv.ConnectionConfig{Driver: driver}, nil
	}

	cfg := defaultPostgresConfig()

	cfg.Host = firstNonEmpty(envVars.PGHOST, fc.Host, "localhost")

	switch {
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", envVars.PGPORT, pgcsv.ErrInvalidConfig)
		}
		cfg.Port = port
	case fc.Port != 0:
		cfg.Port = fc.Port
	}

	cfg.Username = firstNonEmpty(envVars.PGUSER, fc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Database = firstNonEmpty(envVars.PGDATABASE, fc.Database, pgcsv.DefaultManagementDB)

	return cfg, nil
}

// applyCloudAuth sets the authentication method and its parameters.
// An explicit auth_method wins; otherwise Azure environment credentials switch to Entra ID.
func applyCloudAuth(cfg *pgcsv.ConnectionConfig, fc *config.ConnectionConfig, env *EnvVars) error {
	method, err := pgcsv.ParseAuthMethod(fc.AuthMethod)
	if err != nil {
		return err
	}
	if fc.AuthMethod == "" && env.HasAzureCredentials() {
		method = pgcsv.AuthMethodAzureEntraID
	}
	cfg.AuthMethod = method

	switch method {
	case pgcsv.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(fc.AWSRegion, env.AWS_REGION)
	case pgcsv.AuthMethodGoogleIAM:
		cfg.GoogleInstance = fc.GoogleInstance
	case pgcsv.AuthMethodAzureEntraID:
		cfg.AzureTenantID = firstNonEmpty(fc.AzureTenantID, env.AZURE_TENANT_ID)
		cfg.AzureClientID = firstNonEmpty(fc.AzureClientID, env.AZURE_CLIENT_ID)
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
