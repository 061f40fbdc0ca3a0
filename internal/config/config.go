package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// ErrConfigNotFound is returned when the job file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConfigFileName is the job file looked up when a directory is given.
const ConfigFileName = "pgcsv.yaml"

// ConnectionConfig is the connection section of the job file.
// Passwords and client secrets are never read from the file.
type ConnectionConfig struct {
	Driver         string `yaml:"driver,omitempty"`
	DSN            string `yaml:"dsn,omitempty"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AppName        string `yaml:"application_name,omitempty"`
	ConnectTimeout string `yaml:"connect_timeout,omitempty"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// ParseConfig is the parse section of the job file.
type ParseConfig struct {
	Delimiter   string   `yaml:"delimiter,omitempty"`
	Encoding    string   `yaml:"encoding,omitempty"`
	Columns     []string `yaml:"columns,omitempty"`
	DateColumns []string `yaml:"date_columns,omitempty"`
	DateFormats []string `yaml:"date_formats,omitempty"`
	DayFirst    bool     `yaml:"day_first,omitempty"`
	NullValues  []string `yaml:"null_values,omitempty"`
}

// JobFile is the on-disk shape of a load job.
type JobFile struct {
	Source       string           `yaml:"source"`
	Extension    string           `yaml:"extension,omitempty"`
	Table        string           `yaml:"table"`
	Mode         string           `yaml:"mode,omitempty"`
	ChunkSize    int              `yaml:"chunk_size,omitempty"`
	InsertMethod string           `yaml:"insert_method,omitempty"`
	SchemaPolicy string           `yaml:"schema_policy,omitempty"`
	FallbackType string           `yaml:"fallback_type,omitempty"`
	Timeout      string           `yaml:"timeout,omitempty"`
	Parse        ParseConfig      `yaml:"parse"`
	Connection   ConnectionConfig `yaml:"connection"`
}

// Load reads the job file at path. If path is a directory, ConfigFileName inside it is read.
// A relative source directory in the file is resolved against the file's directory.
func Load(path string) (*JobFile, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, ConfigFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return nil, err
	}

	var job JobFile
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w: %w", path, pgcsv.ErrInvalidConfig, err)
	}

	if job.Source != "" && !filepath.IsAbs(job.Source) {
		job.Source = filepath.Join(filepath.Dir(path), job.Source)
	}
	return &job, nil
}

// JobConfig converts the file into a validated pgcsv.JobConfig with defaults applied.
func (j *JobFile) JobConfig() (pgcsv.JobConfig, error) {
	var errs []error

	cfg := pgcsv.JobConfig{
		SourcePath:   j.Source,
		Extension:    j.Extension,
		Mode:         pgcsv.LoadMode(j.Mode),
		ChunkSize:    j.ChunkSize,
		InsertMethod: pgcsv.InsertMethod(j.InsertMethod),
		SchemaPolicy: pgcsv.SchemaPolicy(j.SchemaPolicy),
		FallbackType: j.FallbackType,
		Parse: pgcsv.ParseOptions{
			Encoding:    j.Parse.Encoding,
			Columns:     j.Parse.Columns,
			DateColumns: j.Parse.DateColumns,
			DateFormats: j.Parse.DateFormats,
			DayFirst:    j.Parse.DayFirst,
			NullValues:  j.Parse.NullValues,
		},
	}

	if j.Table != "" {
		table, err := pgcsv.ParseTableName(j.Table)
		if err != nil {
			errs = append(errs, err)
		}
		cfg.Table = table
	}

	if j.Parse.Delimiter != "" {
		r, size := utf8.DecodeRuneInString(j.Parse.Delimiter)
		if j.Parse.Delimiter == `\t` {
			r, size = '\t', 2
		}
		if size != len(j.Parse.Delimiter) {
			errs = append(errs, fmt.Errorf("delimiter %q must be a single character: %w", j.Parse.Delimiter, pgcsv.ErrInvalidConfig))
		}
		cfg.Parse.Delimiter = r
	}

	if j.Timeout != "" {
		d, err := time.ParseDuration(j.Timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid timeout %q: %w", j.Timeout, pgcsv.ErrInvalidConfig))
		}
		cfg.Timeout = d
	}

	if len(errs) > 0 {
		return pgcsv.JobConfig{}, errors.Join(errs...)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return pgcsv.JobConfig{}, err
	}
	return cfg, nil
}
