package txload

import "context"

// Loader is the main interface for moving the datasets into the database.
// Implementations read every dataset, coerce its date columns, then replace
// the destination tables over a single connection.
type Loader interface {
	// Load runs the whole pipeline for the given configuration.
	// It stops at the first failing step; tables already written stay written.
	Load(ctx context.Context, config LoadConfig) (*Result, error)
}
