package db

import (
	"context"
	"fmt"
	"time"

	"github.com/fraudlab/txload/pkg/txload"
	"github.com/jackc/pgx/v5"
)

// tokenExpiryWarning is how close to expiry a fresh token may be before a warning is logged.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
// The token is acquired from a TokenProvider and used as the PostgreSQL password.
type TokenBasedConnector struct {
	config        *txload.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
	logger        txload.Logger
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in error and warning messages (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(config *txload.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger txload.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		logger:        orNullLogger(logger),
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to acquire %s token from %s: %w", txload.ErrConnectionFailed, c.providerName, c.tokenProvider, err)
	}

	if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
		c.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
	}

	configWithToken := *c.config
	configWithToken.Password = token
	if configWithToken.SSLMode == "" || configWithToken.SSLMode == "disable" || configWithToken.SSLMode == "prefer" {
		// Cloud IAM endpoints reject tokens sent over plaintext.
		configWithToken.SSLMode = "require"
	}

	c.logger.Verbose("Connecting with %s token to %s:%d", c.providerName, c.config.Host, c.config.Port)
	return openConn(ctx, &configWithToken, c.logger)
}
