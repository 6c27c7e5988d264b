package txload

import (
	"errors"
	"fmt"
	"time"
)

// Dataset describes one source file and the table it replaces.
type Dataset struct {
	// Name is a short label used in logs ("train", "test").
	Name string

	// Path is the delimited text file with a header row.
	Path string

	// Table is the destination table, optionally schema-qualified ("analytics.train_transactions").
	Table string

	// DateColumns are converted from text to timestamps before writing.
	DateColumns []string
}

// Validate checks the dataset has everything needed to load it.
func (d Dataset) Validate() error {
	var errs []error

	if d.Path == "" {
		errs = append(errs, fmt.Errorf("dataset %q: Path is required: %w", d.Name, ErrInvalidConfig))
	}
	if d.Table == "" {
		errs = append(errs, fmt.Errorf("dataset %q: Table is required: %w", d.Name, ErrInvalidConfig))
	}
	for _, c := range d.DateColumns {
		if c == "" {
			errs = append(errs, fmt.Errorf("dataset %q: empty date column name: %w", d.Name, ErrInvalidConfig))
			break
		}
	}

	return errors.Join(errs...)
}

// DefaultDatasets returns the train and test datasets in load order.
func DefaultDatasets() []Dataset {
	return []Dataset{
		{Name: "train", Path: DefaultTrainPath, Table: DefaultTrainTable, DateColumns: DefaultDateColumns()},
		{Name: "test", Path: DefaultTestPath, Table: DefaultTestTable, DateColumns: DefaultDateColumns()},
	}
}

// LoadConfig contains all parameters needed for a load operation.
type LoadConfig struct {
	// Datasets are processed strictly in order.
	Datasets []Dataset

	// ConnectionString is the PostgreSQL connection string (URI or ADO.NET format)
	ConnectionString string

	// Delimiter separates fields in the source files. Zero means comma.
	Delimiter rune

	// Timeout is the global timeout for the whole run
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Cloud authentication parameters, used according to AuthMethod
	AWSRegion         string
	GoogleInstance    string
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if len(c.Datasets) == 0 {
		errs = append(errs, fmt.Errorf("at least one dataset is required: %w", ErrInvalidConfig))
	}

	tables := make(map[string]string, len(c.Datasets))
	for _, d := range c.Datasets {
		if err := d.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if other, dup := tables[d.Table]; dup {
			errs = append(errs, fmt.Errorf("datasets %q and %q both write table %q: %w", other, d.Name, d.Table, ErrInvalidConfig))
		}
		tables[d.Table] = d.Name
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	if !c.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("auth method %v: %w", c.AuthMethod, ErrUnsupportedAuthMethod))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance).
	GoogleInstance string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
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

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// TableResult reports what was written to one destination table.
type TableResult struct {
	Dataset string
	Table   string
	Rows    int64
	Columns int
}

// Result summarizes a completed load.
type Result struct {
	// RunID identifies the run in logs and in pg_stat_activity.application_name.
	RunID    string
	Tables   []TableResult
	Duration time.Duration
}

// TotalRows returns the number of rows written across all tables.
func (r *Result) TotalRows() int64 {
	var n int64
	for _, t := range r.Tables {
		n += t.Rows
	}
	return n
}
