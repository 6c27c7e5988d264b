package replacer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fraudlab/txload/internal/table"
	"github.com/fraudlab/txload/pkg/txload"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Replacer replaces destination tables over a txload.DBConnection.
type Replacer struct{}

// New creates a new Replacer.
func New() *Replacer {
	return &Replacer{}
}

// ParseTableName splits "table" or "schema.table" into a pgx.Identifier.
func ParseTableName(name string) (pgx.Identifier, error) {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("table name %q: expected table or schema.table: %w", name, txload.ErrInvalidConfig)
	}
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("table name %q: empty identifier: %w", name, txload.ErrInvalidConfig)
		}
	}
	return pgx.Identifier(parts), nil
}

// CreateTableSQL returns the CREATE TABLE statement for the given columns.
func CreateTableSQL(name string, columns []table.Column) (string, error) {
	ident, err := ParseTableName(name)
	if err != nil {
		return "", err
	}

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c.Name}.Sanitize() + " " + c.Type.SQL()
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", ident.Sanitize(), strings.Join(defs, ", ")), nil
}

// Replace drops the named table if it exists, recreates it from the table's
// header and bulk-copies every row. Returns the number of rows written.
// All failures wrap txload.ErrWriteFailed except an invalid name, which
// wraps txload.ErrInvalidConfig.
func (r *Replacer) Replace(ctx context.Context, conn txload.DBConnection, name string, t *table.Table) (int64, error) {
	if t == nil {
		return 0, fmt.Errorf("%w: %s: %w", txload.ErrWriteFailed, name, errNilTable)
	}
	ident, err := ParseTableName(name)
	if err != nil {
		return 0, err
	}
	createSQL, err := CreateTableSQL(name, t.Columns())
	if err != nil {
		return 0, err
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: begin: %w", txload.ErrWriteFailed, name, err)
	}
	// No-op once committed
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident.Sanitize()); err != nil {
		return 0, fmt.Errorf("%w: %s: drop: %w", txload.ErrWriteFailed, name, err)
	}
	if _, err := tx.Exec(ctx, createSQL); err != nil {
		return 0, fmt.Errorf("%w: %s: create: %w", txload.ErrWriteFailed, name, err)
	}

	n, err := tx.CopyFrom(ctx, ident, t.ColumnNames(), &rowSource{t: t, row: -1})
	if err != nil {
		return 0, fmt.Errorf("%w: %s: copy: %w", txload.ErrWriteFailed, name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%w: %s: commit: %w", txload.ErrWriteFailed, name, err)
	}
	return n, nil
}

// rowSource feeds table rows to CopyFrom.
type rowSource struct {
	t   *table.Table
	row int
	err error
}

func (s *rowSource) Next() bool {
	if s.err != nil {
		return false
	}
	s.row++
	return s.row < s.t.Len()
}

func (s *rowSource) Values() ([]any, error) {
	values, err := s.t.Values(s.row)
	if err != nil {
		s.err = err
		return nil, err
	}
	for i, v := range values {
		if d, ok := v.(decimal.Decimal); ok {
			values[i] = numeric(d)
		}
	}
	return values, nil
}

func (s *rowSource) Err() error {
	return s.err
}

// numeric converts a decimal to the driver's numeric type without a text round trip.
func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

var errNilTable = errors.New("nil table")

// Verify Replacer satisfies the consumer interface shape at compile time.
var _ interface {
	Replace(context.Context, txload.DBConnection, string, *table.Table) (int64, error)
} = (*Replacer)(nil)
