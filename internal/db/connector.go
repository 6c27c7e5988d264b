package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/fraudlab/txload/internal/logging"
	"github.com/fraudlab/txload/pkg/txload"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func orNullLogger(logger txload.Logger) txload.Logger {
	if logger == nil {
		return logging.NewNullLogger()
	}
	return logger
}

// configureConn routes server notices to the logger. DROP TABLE IF EXISTS on
// a first run emits one, and stdout is reserved for the success line.
func configureConn(connConfig *pgx.ConnConfig, logger txload.Logger) {
	connConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("server notice: %s", notice.Message)
	}
}

// StandardConnector implements the Connector interface for standard
// username/password authentication. It opens exactly one connection and
// does not retry; a failed attempt is reported to the caller as is.
type StandardConnector struct {
	config *txload.ConnectionConfig
	logger txload.Logger
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *txload.ConnectionConfig, logger txload.Logger) *StandardConnector {
	return &StandardConnector{
		config: config,
		logger: orNullLogger(logger),
	}
}

// Connect opens a connection using standard authentication and pings it.
func (c *StandardConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	return openConn(ctx, c.config, c.logger)
}

// openConn parses the config into a pgx config, connects and verifies the
// connection with a ping. The connection is closed again if the ping fails.
func openConn(ctx context.Context, config *txload.ConnectionConfig, logger txload.Logger) (*pgx.Conn, error) {
	connConfig, err := pgx.ParseConfig(BuildConnectionString(config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", err, txload.ErrInvalidConfig)
	}

	configureConn(connConfig, logger)

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close(context.Background())
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}

	return conn, nil
}

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's AuthMethod. A nil logger discards notices.
func NewConnector(config *txload.ConnectionConfig, logger txload.Logger) (txload.Connector, error) {
	logger = orNullLogger(logger)

	switch config.AuthMethod {
	case txload.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case txload.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case txload.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case txload.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, txload.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
// Every returned error matches txload.ErrConnectionFailed.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`%w: connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, txload.ErrConnectionFailed, addr, host, port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`%w: cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable

Original error: %w`, txload.ErrConnectionFailed, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`%w: password authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD, your .env file or ~/.pgpass)
  - Wrong username
  - User does not have access to the database

Original error: %w`, txload.ErrConnectionFailed, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`%w: database "%s" does not exist

txload replaces tables but never creates the database. To create it:
  createdb %s

Original error: %w`, txload.ErrConnectionFailed, database, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`%w: connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, txload.ErrConnectionFailed, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`%w: SSL/TLS connection error

Possible causes:
  - Server requires SSL but --sslmode is wrong
  - Certificate verification failed (try --sslmode=require)

Original error: %w`, txload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`%w: too many connections to database "%s"

The max_connections limit on the server has been reached.

Original error: %w`, txload.ErrConnectionFailed, database, err)

	default:
		return fmt.Errorf("%w: %w", txload.ErrConnectionFailed, err)
	}
}

// newAWSConnector creates a token-based connector with the AWS IAM token provider.
func newAWSConnector(config *txload.ConnectionConfig, logger txload.Logger) (txload.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w: %w", err, txload.ErrInvalidConfig)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", logger), nil
}

// newGoogleConnector creates a GoogleCloudSQLConnector for Google Cloud SQL IAM authentication.
func newGoogleConnector(config *txload.ConnectionConfig, logger txload.Logger) (txload.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", txload.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username (-U): %w", txload.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, logger), nil
}

// newAzureConnector creates a token-based connector with the Azure Entra ID token provider.
// With tenant, client and secret all present it uses Service Principal auth,
// otherwise the DefaultAzureCredential chain.
func newAzureConnector(config *txload.ConnectionConfig, logger txload.Logger) (txload.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID,
			config.AzureClientID,
			config.AzureClientSecret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure", logger), nil
}
