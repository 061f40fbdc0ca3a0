package pgcsv

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Job completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid job file or connection parameters
	ExitConnectionError = 11 // Failed to connect to the target store
	ExitLoadFailed      = 13 // Store rejected a statement for a non-schema reason
	ExitParseError      = 15 // A source file could not be parsed
	ExitSchemaError     = 16 // Invalid identifiers or table/batch mismatch
)

const (
	// DefaultExtension is the source file extension picked up by discovery.
	DefaultExtension = ".csv"

	// DefaultDelimiter separates fields in source files.
	DefaultDelimiter = ','

	// DefaultEncoding is the WHATWG label of the source text encoding.
	DefaultEncoding = "utf-8"

	// DefaultFallbackType is the SQL type used for columns whose values carry no kind
	// (for example a column that is NULL in every row of the batch).
	DefaultFallbackType = "VARCHAR(35)"

	// DefaultTimeout bounds the whole run.
	DefaultTimeout = 30 * time.Minute

	// DefaultAppName is reported to the server as application_name.
	DefaultAppName = "pgcsv"

	// DefaultManagementDB is the database used when none is configured.
	DefaultManagementDB = "postgres"

	// MaxErrorPreviewLength caps SQL text echoed back in error messages.
	MaxErrorPreviewLength = 200
)

// DefaultNullValues are the missing-value tokens common in spreadsheet and dataframe exports.
var DefaultNullValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null", "NaT",
}
