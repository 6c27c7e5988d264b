package txload

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Connector is a unified interface for establishing database connections.
// Different implementations handle various authentication methods
// (standard credentials, cloud IAM tokens, Cloud SQL dialers).
type Connector interface {
	// Connect opens a single connection to the database and verifies it with a ping.
	// The returned connection should be closed by the caller when done.
	Connect(ctx context.Context) (*pgx.Conn, error)
}
