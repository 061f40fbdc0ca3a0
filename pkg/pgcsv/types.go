package pgcsv

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LoadMode selects how discovered files are grouped into load units.
type LoadMode string

const (
	// ModeChunked merges the files of each chunk into one batch and commits per chunk.
	ModeChunked LoadMode = "chunked"

	// ModePerFile reads every file into its own batch and inserts each one separately.
	ModePerFile LoadMode = "per_file"
)

// InsertMethod selects how a batch is written to the table.
type InsertMethod string

const (
	// InsertValues sends multi-row INSERT ... VALUES statements, split only at the
	// dialect's bind parameter limit.
	InsertValues InsertMethod = "values"

	// InsertBatch repeats one parameterized single-row INSERT per row.
	InsertBatch InsertMethod = "batch"

	// InsertCopy streams rows with the PostgreSQL COPY protocol.
	InsertCopy InsertMethod = "copy"
)

// SchemaPolicy decides what happens when a batch's columns differ from the table.
type SchemaPolicy string

const (
	// PolicyFirstBatchWins keeps the table shape created by the first batch and
	// leaves later mismatches to the store.
	PolicyFirstBatchWins SchemaPolicy = "first_batch_wins"

	// PolicyStrict rejects a batch whose columns differ from the recorded table columns.
	PolicyStrict SchemaPolicy = "strict"
)

// ParseOptions are the fixed options every source file is parsed with.
type ParseOptions struct {
	// Delimiter separates fields.
	Delimiter rune

	// Encoding is a WHATWG encoding label ("utf-8", "cp1252", "latin1", ...).
	Encoding string

	// Columns is the explicit subset of raw labels to retain, in output order.
	// Empty means every column.
	Columns []string

	// DateColumns are raw labels parsed as timestamps. Unparseable values become NULL.
	DateColumns []string

	// DateFormats are Go layouts tried in order before format-free parsing.
	DateFormats []string

	// DayFirst resolves ambiguous dates like 03/04/2024 as 3 April.
	DayFirst bool

	// NullValues are the tokens read as NULL. nil means DefaultNullValues.
	NullValues []string
}

// ConnectionConfig represents resolved connection parameters.
type ConnectionConfig struct {
	// Driver selects the store: "postgres" (default), "sqlite" or "mysql".
	Driver string

	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// DSN is the driver data source name for sqlite and mysql.
	DSN string

	// AuthMethod indicates the authentication mechanism to use (postgres only)
	AuthMethod AuthMethod

	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Cloud authentication parameters
	AWSRegion         string
	GoogleInstance    string
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS RDS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// ParseAuthMethod maps a configuration value to an AuthMethod.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam", "aws_iam":
		return AuthMethodAWSIAM, nil
	case "google", "google-iam", "google_iam", "gcp":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id", "azure_entra_id":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("auth method %q: %w", s, ErrUnsupportedAuthMethod)
	}
}

// JobConfig contains everything one load run needs. It is built once by the CLI
// and passed to the orchestrator; nothing is read from process-wide state afterwards.
type JobConfig struct {
	// SourcePath is the root directory walked for source files
	SourcePath string

	// Extension filters discovered files (case-insensitive)
	Extension string

	// Table is the target relation
	Table TableName

	// Parse holds the per-file parsing options
	Parse ParseOptions

	// Mode selects chunked or per-file loading
	Mode LoadMode

	// ChunkSize is the number of files per chunk; zero means one chunk
	ChunkSize int

	// InsertMethod selects the bulk insert strategy
	InsertMethod InsertMethod

	// SchemaPolicy selects how drift between batches and the table is handled
	SchemaPolicy SchemaPolicy

	// FallbackType is the SQL type for columns with no observed value kind
	FallbackType string

	// Timeout bounds the whole run
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// ApplyDefaults fills zero-valued fields with package defaults.
func (c *JobConfig) ApplyDefaults() {
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.Parse.Delimiter == 0 {
		c.Parse.Delimiter = DefaultDelimiter
	}
	if c.Parse.Encoding == "" {
		c.Parse.Encoding = DefaultEncoding
	}
	if c.Parse.NullValues == nil {
		c.Parse.NullValues = DefaultNullValues
	}
	if c.Mode == "" {
		c.Mode = ModeChunked
	}
	if c.InsertMethod == "" {
		c.InsertMethod = InsertValues
	}
	if c.SchemaPolicy == "" {
		c.SchemaPolicy = PolicyFirstBatchWins
	}
	if c.FallbackType == "" {
		c.FallbackType = DefaultFallbackType
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks if the JobConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *JobConfig) Validate() error {
	var errs []error

	if c.SourcePath == "" {
		errs = append(errs, fmt.Errorf("SourcePath is required: %w", ErrInvalidConfig))
	}

	if c.Table.Name == "" {
		errs = append(errs, fmt.Errorf("Table is required: %w", ErrInvalidConfig))
	}

	switch c.Mode {
	case ModeChunked, ModePerFile:
	default:
		errs = append(errs, fmt.Errorf("mode %q must be %q or %q: %w", c.Mode, ModeChunked, ModePerFile, ErrInvalidConfig))
	}

	switch c.InsertMethod {
	case InsertValues, InsertBatch, InsertCopy:
	default:
		errs = append(errs, fmt.Errorf("insert method %q must be values, batch or copy: %w", c.InsertMethod, ErrInvalidConfig))
	}

	switch c.SchemaPolicy {
	case PolicyFirstBatchWins, PolicyStrict:
	default:
		errs = append(errs, fmt.Errorf("schema policy %q must be %q or %q: %w", c.SchemaPolicy, PolicyFirstBatchWins, PolicyStrict, ErrInvalidConfig))
	}

	if c.ChunkSize < 0 {
		errs = append(errs, fmt.Errorf("chunk size cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Parse.Delimiter == '"' || c.Parse.Delimiter == '\n' || c.Parse.Delimiter == '\r' {
		errs = append(errs, fmt.Errorf("delimiter %q is not allowed: %w", c.Parse.Delimiter, ErrInvalidConfig))
	}

	if len(c.Parse.Columns) > 0 {
		keep := make(map[string]bool, len(c.Parse.Columns))
		for _, col := range c.Parse.Columns {
			if keep[col] {
				errs = append(errs, fmt.Errorf("column %q listed twice: %w", col, ErrInvalidConfig))
			}
			keep[col] = true
		}
		for _, dc := range c.Parse.DateColumns {
			if !keep[dc] {
				errs = append(errs, fmt.Errorf("date column %q is not in the column subset: %w", dc, ErrInvalidConfig))
			}
		}
	}

	return errors.Join(errs...)
}
