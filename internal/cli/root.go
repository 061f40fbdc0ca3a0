package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/pgcsv/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "pgcsv",
	Short: "Load a folder of CSV files into a relational table",
	Long: `pgcsv discovers every CSV file under the job's source folder, normalizes the
column labels, infers one type per column and loads the rows into a single
target table, creating the table if it does not exist yet.

Files are merged and committed chunk by chunk (mode: chunked) or loaded one
transaction per file (mode: per_file). Chunks committed before a failure stay
committed.

The job is described by pgcsv.yaml. Credentials come from the environment,
a .env file in the working directory, or the connection string.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid job file or connection parameters
  11 - Database connection failed
  13 - Store rejected a statement
  15 - A source file could not be parsed
  16 - Invalid column names or table/batch mismatch`,
	Args:         cobra.NoArgs,
	RunE:         runLoad,
	SilenceUsage: true,
}

type globalFlagValues struct {
	configPath string
	connection string
	verbose    bool
}

var globalFlags globalFlagValues

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.configPath, "config", "c", config.ConfigFileName,
		"Path to the job file, or a directory containing "+config.ConfigFileName)
	rootCmd.PersistentFlags().StringVar(&globalFlags.connection, "connection", "",
		"Connection string (postgresql://, mysql://, sqlite: or ADO.NET format).\n"+
			"Overrides DATABASE_URL and the connection section of the job file")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.verbose, "verbose", "v", false,
		"Enable verbose output for all commands")
}
