package pgcsv

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure taxonomy of a load run.
// Callers distinguish them with errors.Is().
//
// Example usage:
//
//	summary, err := orchestrator.Run(ctx)
//	if errors.Is(err, pgcsv.ErrSchema) {
//	    // table and batch disagree, earlier chunks are already committed
//	}
var (
	// ErrInvalidConfig indicates the job configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the target store could not be reached or refused the credentials.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrParse indicates a source file could not be parsed under the configured options.
	ErrParse = errors.New("parse error")

	// ErrSchema indicates invalid column identifiers or a table/batch mismatch rejected by the store.
	ErrSchema = errors.New("schema error")

	// ErrSchemaDrift indicates a batch's inferred columns differ from the table's recorded columns.
	// It always wraps ErrSchema.
	ErrSchemaDrift = errors.New("schema drift")

	// ErrLoadFailed indicates the store failed a statement for any other reason.
	ErrLoadFailed = errors.New("load failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrUnsupportedInsertMethod indicates the store cannot perform the configured insert method.
	ErrUnsupportedInsertMethod = errors.New("unsupported insert method")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrUnsupportedAuthMethod),
		errors.Is(err, ErrUnsupportedInsertMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrParse):
		return ExitParseError
	case errors.Is(err, ErrSchema):
		return ExitSchemaError
	case errors.Is(err, ErrLoadFailed):
		return ExitLoadFailed
	}

	errStr := err.Error()
	if isUsageError(errStr) {
		return ExitUsageError
	}
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

// Preview truncates s to MaxErrorPreviewLength characters for error messages.
func Preview(s string) string {
	if len(s) <= MaxErrorPreviewLength {
		return s
	}
	return s[:MaxErrorPreviewLength] + "..."
}

// isUsageError matches the messages cobra and pflag produce for bad invocations.
func isUsageError(msg string) bool {
	for _, prefix := range []string{"unknown flag", "unknown shorthand flag", "unknown command", "accepts ", "required flag", "invalid argument", "flag needs an argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
