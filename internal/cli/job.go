package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vvka-141/pgcsv/internal/config"
	"github.com/vvka-141/pgcsv/internal/csvread"
	"github.com/vvka-141/pgcsv/internal/db"
	"github.com/vvka-141/pgcsv/internal/files/filesystem"
	"github.com/vvka-141/pgcsv/internal/files/scanner"
	"github.com/vvka-141/pgcsv/internal/services"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// jobSetup is a validated job plus its resolved connection.
type jobSetup struct {
	job  pgcsv.JobConfig
	conn *pgcsv.ConnectionConfig
}

// loadJob reads the job file and resolves the connection.
// A missing job file is a configuration error.
func loadJob(configPath, connectionFlag string, envVars *db.EnvVars) (*jobSetup, error) {
	file, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("failed to load job file: %w: %w\n\nTip: pass --config with the path to %s",
				pgcsv.ErrInvalidConfig, err, config.ConfigFileName)
		}
		return nil, fmt.Errorf("failed to load job file: %w", err)
	}

	job, err := file.JobConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid job file %s: %w", configPath, err)
	}

	conn, err := db.ResolveConnection(connectionFlag, envVars, &file.Connection)
	if err != nil {
		return nil, err
	}
	return &jobSetup{job: job, conn: conn}, nil
}

// newOrchestrator wires the production dependencies for setup.
func newOrchestrator(setup *jobSetup, logger pgcsv.Logger) (*services.Orchestrator, error) {
	connector, err := db.NewConnector(setup.conn, logger)
	if err != nil {
		return nil, err
	}

	reader, err := csvread.NewReader(filesystem.NewOSFileSystem(), setup.job.Parse)
	if err != nil {
		return nil, err
	}

	return services.NewOrchestrator(setup.job, connector, scanner.NewScanner(), reader, logger), nil
}

// runContext bounds the run by timeout and cancels it on SIGINT or SIGTERM.
func runContext(timeout time.Duration, logger pgcsv.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			logger.Info("\n[INTERRUPT] Received interrupt signal, cancelling load...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
