package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fraudlab/txload/internal/config"
	"github.com/fraudlab/txload/internal/db"
	"github.com/fraudlab/txload/pkg/txload"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// connectionFlags holds the connection-related flag values.
type connectionFlags struct {
	connection     string
	host           string
	port           int
	username       string
	database       string
	sslMode        string
	aws            bool
	awsRegion      string
	azure          bool
	azureTenantID  string
	azureClientID  string
	google         bool
	googleInstance string
}

// resolvedConnection holds the resolved connection configuration.
type resolvedConnection struct {
	ConnConfig *txload.ConnectionConfig
	ConnStr    string
}

// resolveConnectionFromFlags resolves connection configuration from flags,
// the environment and the project config.
func resolveConnectionFromFlags(flags connectionFlags, projectCfg *config.ProjectConfig) (*resolvedConnection, error) {
	granularFlags := &db.GranularConnFlags{
		Host:     flags.host,
		Port:     flags.port,
		Username: flags.username,
		Database: flags.database,
		SSLMode:  flags.sslMode,
	}

	cloudFlags := &db.CloudFlags{
		AWS:            flags.aws,
		AWSRegion:      flags.awsRegion,
		Azure:          flags.azure,
		AzureTenantID:  flags.azureTenantID,
		AzureClientID:  flags.azureClientID,
		Google:         flags.google,
		GoogleInstance: flags.googleInstance,
	}

	connConfig, err := db.ResolveConnectionParams(
		flags.connection,
		granularFlags,
		cloudFlags,
		db.LoadFromEnvironment(),
		projectCfg,
	)
	if err != nil {
		return nil, err
	}

	return &resolvedConnection{
		ConnConfig: connConfig,
		ConnStr:    db.BuildConnectionString(connConfig),
	}, nil
}

// loadProjectConfig loads .env and the project file.
// With no explicit path, a missing txload.yaml is not an error and yields nil.
func loadProjectConfig(path string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = config.ConfigFileName
	}

	projectCfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !explicit {
			return nil, nil
		}
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("config file %s not found: %w", path, txload.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return projectCfg, nil
}

// resolveEffectiveTimeout returns the effective timeout, preferring txload.yaml if the flag wasn't set.
func resolveEffectiveTimeout(cmd *cobra.Command, projectCfg *config.ProjectConfig, flagTimeout time.Duration) (time.Duration, error) {
	if projectCfg != nil && !cmd.Flags().Changed("timeout") {
		parsed, err := projectCfg.TimeoutDuration()
		if err != nil {
			return 0, fmt.Errorf("invalid timeout in %s: %w", config.ConfigFileName, err)
		}
		if parsed > 0 {
			return parsed, nil
		}
	}
	return flagTimeout, nil
}

// logConnectionVerbose logs connection details when verbose mode is enabled.
func logConnectionVerbose(connConfig *txload.ConnectionConfig) {
	fmt.Fprintf(os.Stderr, "[VERBOSE] Connection resolved:\n")
	fmt.Fprintf(os.Stderr, "  Host: %s\n", connConfig.Host)
	fmt.Fprintf(os.Stderr, "  Port: %d\n", connConfig.Port)
	fmt.Fprintf(os.Stderr, "  User: %s\n", connConfig.Username)
	fmt.Fprintf(os.Stderr, "  Database: %s\n", connConfig.Database)
	fmt.Fprintf(os.Stderr, "  SSL Mode: %s\n", connConfig.SSLMode)
	fmt.Fprintf(os.Stderr, "  Auth Method: %s\n", connConfig.AuthMethod)
}
