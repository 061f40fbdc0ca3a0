package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/pgcsv/internal/db"
	"github.com/vvka-141/pgcsv/internal/logging"
	"github.com/vvka-141/pgcsv/internal/report"
)

func runLoad(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	logger := logging.NewConsoleLogger(globalFlags.verbose)

	setup, err := loadJob(globalFlags.configPath, globalFlags.connection, db.LoadFromEnvironment())
	if err != nil {
		return err
	}
	logger.Verbose("Connection resolved: %s", db.Redacted(setup.conn))
	logger.Verbose("Job: source %s, table %s, mode %s, insert %s", setup.job.SourcePath, setup.job.Table, setup.job.Mode, setup.job.InsertMethod)

	orchestrator, err := newOrchestrator(setup, logger)
	if err != nil {
		return err
	}

	ctx, cancel := runContext(setup.job.Timeout, logger)
	defer cancel()

	summary, err := orchestrator.Run(ctx)
	if err != nil {
		if n := summary.Committed(); n > 0 {
			logger.Error("%d load unit(s) with %d rows were committed before the failure", n, summary.Rows)
		}
		return fmt.Errorf("load into %s failed: %w", setup.job.Table, err)
	}

	return report.NewPrinter(cmd.OutOrStdout()).Summary(summary)
}
