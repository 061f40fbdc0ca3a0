package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/pgcsv/internal/db"
	"github.com/vvka-141/pgcsv/internal/logging"
	"github.com/vvka-141/pgcsv/internal/report"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a run would create and load without touching the database",
	Long: `Plan discovers, chunks, parses and infers exactly like a run, then prints one
table row per load unit with its files, row count and the column list that
would be used for CREATE TABLE and INSERT.

No connection is opened. Parse errors and duplicate column names are reported
the same way a run reports them.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	logger := logging.NewConsoleLogger(globalFlags.verbose)

	setup, err := loadJob(globalFlags.configPath, globalFlags.connection, db.LoadFromEnvironment())
	if err != nil {
		return err
	}

	orchestrator, err := newOrchestrator(setup, logger)
	if err != nil {
		return err
	}

	ctx, cancel := runContext(setup.job.Timeout, logger)
	defer cancel()

	plan, err := orchestrator.Plan(ctx)
	if err != nil {
		return fmt.Errorf("plan for %s failed: %w", setup.job.Table, err)
	}

	return report.NewPrinter(cmd.OutOrStdout()).Plan(plan)
}
