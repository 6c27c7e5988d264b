package txload

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection abstracts the connection operations needed to replace tables.
// *pgx.Conn satisfies it; tests substitute fakes.
//
// Thread-Safety: NOT safe for concurrent use, matching *pgx.Conn.
type DBConnection interface {
	// Exec executes a statement without returning any rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// Begin starts a transaction. Each table write runs in its own transaction.
	Begin(ctx context.Context) (pgx.Tx, error)
}
