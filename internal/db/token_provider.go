package db

import (
	"context"
	"time"
)

// TokenProvider abstracts cloud token acquisition for database authentication.
type TokenProvider interface {
	// GetToken acquires a token used as the password when connecting to
	// cloud-hosted PostgreSQL. Returns the token string and its expiry time.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String returns a human-readable description for logging.
	// Should NOT include secrets.
	String() string
}

// AzurePostgreSQLScope is the OAuth scope for Azure Database for PostgreSQL.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"

// rdsTokenLifetime is how long an RDS IAM auth token stays valid.
const rdsTokenLifetime = 15 * time.Minute
