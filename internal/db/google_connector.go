package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/fraudlab/txload/pkg/txload"
	"github.com/jackc/pgx/v5"
)

// GoogleCloudSQLConnector implements the Connector interface for Google Cloud SQL
// using IAM database authentication via the Cloud SQL Go Connector.
//
// Implements io.Closer: the caller must call Close() after the connection is
// closed to release the Cloud SQL dialer.
type GoogleCloudSQLConnector struct {
	config   *txload.ConnectionConfig
	instance string
	logger   txload.Logger
	dialer   *cloudsqlconn.Dialer
}

// NewGoogleCloudSQLConnector creates a connector for Google Cloud SQL IAM authentication.
// instance is the instance connection name in format: project:region:instance
func NewGoogleCloudSQLConnector(config *txload.ConnectionConfig, instance string, logger txload.Logger) *GoogleCloudSQLConnector {
	return &GoogleCloudSQLConnector{
		config:   config,
		instance: instance,
		logger:   orNullLogger(logger),
	}
}

// Connect opens a connection through the Cloud SQL dialer, which handles
// IAM authentication and TLS.
func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Cloud SQL dialer: %w", txload.ErrConnectionFailed, err)
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s dbname=%s sslmode=disable",
		c.instance,
		c.config.Username,
		c.config.Database,
	)

	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", err, txload.ErrInvalidConfig)
	}
	if c.config.AppName != "" {
		connConfig.RuntimeParams["application_name"] = c.config.AppName
	}

	connConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}
	configureConn(connConfig, c.logger)

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		dialer.Close()
		return nil, wrapConnectionError(err, c.instance, 0, c.config.Database)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close(context.Background())
		dialer.Close()
		return nil, wrapConnectionError(err, c.instance, 0, c.config.Database)
	}

	c.dialer = dialer
	return conn, nil
}

// Close releases the Cloud SQL dialer resources.
func (c *GoogleCloudSQLConnector) Close() error {
	if c.dialer != nil {
		c.dialer.Close()
		c.dialer = nil
	}
	return nil
}
