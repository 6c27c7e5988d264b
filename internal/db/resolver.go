package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fraudlab/txload/internal/config"
	"github.com/fraudlab/txload/pkg/txload"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD environment variable (a .env file in the working directory works too)
//  2. .pgpass file (PostgreSQL standard)
//  3. Connection string with embedded password
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided by the user.
// Note: Database flag is excluded from this check because it can be used to override
// the database specified in a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// CloudFlags selects a cloud IAM authentication method.
// Secrets are never flags: AZURE_CLIENT_SECRET comes from the environment.
type CloudFlags struct {
	AWS            bool
	AWSRegion      string
	Azure          bool
	AzureTenantID  string
	AzureClientID  string
	Google         bool
	GoogleInstance string
}

func (c *CloudFlags) enabledCount() int {
	n := 0
	for _, on := range []bool{c.AWS, c.Azure, c.Google} {
		if on {
			n++
		}
	}
	return n
}

// EnvVars represents PostgreSQL standard environment variables plus the
// cloud SDK variables txload reads.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST                   string
	PGPORT                   string
	PGUSER                   string
	PGPASSWORD               string
	PGDATABASE               string
	PGSSLMODE                string
	DATABASE_URL             string
	TXLOAD_CONNECTION_STRING string

	AWS_REGION string

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:                   os.Getenv("PGHOST"),
		PGPORT:                   os.Getenv("PGPORT"),
		PGUSER:                   os.Getenv("PGUSER"),
		PGPASSWORD:               os.Getenv("PGPASSWORD"),
		PGDATABASE:               os.Getenv("PGDATABASE"),
		PGSSLMODE:                os.Getenv("PGSSLMODE"),
		DATABASE_URL:             os.Getenv("DATABASE_URL"),
		TXLOAD_CONNECTION_STRING: os.Getenv("TXLOAD_CONNECTION_STRING"),
		AWS_REGION:               os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:          os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:          os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET:      os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnectionParams resolves connection parameters using PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection)
//  2. $TXLOAD_CONNECTION_STRING, then $DATABASE_URL, when no granular flags are given
//  3. Granular flags (-h, -p, -U) > PG* environment variables > txload.yaml > defaults
//
// The -d/--database flag overrides the database of whichever source won.
// Returns an error if BOTH --connection and granular flags are provided.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*txload.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U, --sslmode)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/fraud_detection\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d fraud_detection\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser: %w",
			txload.ErrInvalidConfig,
		)
	}

	var cfg *txload.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, envVars)
	case granularFlags.IsEmpty() && envVars.TXLOAD_CONNECTION_STRING != "":
		cfg, err = resolveFromConnectionString(envVars.TXLOAD_CONNECTION_STRING, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, projectConfig)
	}
	if err != nil {
		return nil, err
	}

	if granularFlags.Database != "" {
		cfg.Database = granularFlags.Database
	}

	if err := applyCloudAuth(cfg, cloudFlags, envVars, projectConfig); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveFromConnectionString parses a connection string and fills the gaps
// from the environment, as libpq does.
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*txload.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w: %w", err, txload.ErrInvalidConfig)
	}

	if cfg.Password == "" {
		cfg.Password = envVars.PGPASSWORD
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	return cfg, nil
}

// resolveFromGranularParams builds ConnectionConfig from granular flags,
// environment variables and txload.yaml.
//
// Precedence for each parameter: CLI flag > environment variable > txload.yaml > default.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*txload.ConnectionConfig, error) {
	cfg := &txload.ConnectionConfig{
		AuthMethod:       txload.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", envVars.PGPORT, txload.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	// Username falls back to the current OS user, like psql
	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = envVars.PGPASSWORD
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database, txload.DefaultDatabase)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer")

	return cfg, nil
}

// applyCloudAuth switches the config to a cloud IAM method when requested by
// flag or by auth_method in txload.yaml. Flags take precedence over
// environment variables, which take precedence over txload.yaml.
func applyCloudAuth(cfg *txload.ConnectionConfig, flags *CloudFlags, env *EnvVars, projectConfig *config.ProjectConfig) error {
	if flags.enabledCount() > 1 {
		return fmt.Errorf("choose at most one of --aws, --azure, --google: %w", txload.ErrInvalidConfig)
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	method := ""
	switch {
	case flags.AWS:
		method = "aws"
	case flags.Azure:
		method = "azure"
	case flags.Google:
		method = "google"
	default:
		method = strings.ToLower(pc.AuthMethod)
	}

	switch method {
	case "", "standard":
		return nil
	case "aws":
		cfg.AuthMethod = txload.AuthMethodAWSIAM
		cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWS_REGION, pc.AWSRegion)
	case "azure":
		cfg.AuthMethod = txload.AuthMethodAzureEntraID
		cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case "google":
		cfg.AuthMethod = txload.AuthMethodGoogleIAM
		cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	default:
		return fmt.Errorf("auth_method %q in txload.yaml: %w", pc.AuthMethod, txload.ErrUnsupportedAuthMethod)
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
