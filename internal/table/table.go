package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ColumnType is the storage type inferred for a column.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeBigInt
	TypeNumeric
	TypeBoolean
	TypeTimestamp
)

// SQL returns the PostgreSQL type name used when creating the destination table.
func (c ColumnType) SQL() string {
	switch c {
	case TypeBigInt:
		return "bigint"
	case TypeNumeric:
		return "numeric"
	case TypeBoolean:
		return "boolean"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "text"
	}
}

func (c ColumnType) String() string {
	return c.SQL()
}

// Column is a named, typed column of a Table.
type Column struct {
	Name string
	Type ColumnType
}

type nullTime struct {
	t     time.Time
	valid bool
}

// Table is an in-memory tabular dataset. Source text is kept as read and
// converted to typed values on demand; timestamp columns hold their parsed
// values so conversion failures surface before anything is written.
//
// Thread-Safety: NOT safe for concurrent mutation.
type Table struct {
	columns    []Column
	records    [][]string
	timestamps map[int][]nullTime
}

// New builds a table from a header and raw records, inferring column types.
// Every record must have exactly len(header) fields.
func New(header []string, records [][]string) (*Table, error) {
	names := normalizeHeader(header)
	for i, rec := range records {
		if len(rec) != len(names) {
			return nil, fmt.Errorf("row %d: expected %d fields, saw %d", i+1, len(names), len(rec))
		}
	}

	t := &Table{
		columns:    make([]Column, len(names)),
		records:    records,
		timestamps: make(map[int][]nullTime),
	}
	for i, name := range names {
		t.columns[i] = Column{Name: name, Type: inferColumnType(records, i)}
	}
	return t, nil
}

// Columns returns a copy of the table header.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Name
	}
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Raw returns the source text of a cell.
func (t *Table) Raw(row, col int) string {
	return t.records[row][col]
}

// Values returns the typed values of one row: nil for NULL, otherwise
// string, int64, decimal.Decimal, bool or time.Time according to the column type.
func (t *Table) Values(row int) ([]any, error) {
	rec := t.records[row]
	out := make([]any, len(t.columns))
	for i, col := range t.columns {
		v, err := t.value(rec[i], row, i, col.Type)
		if err != nil {
			return nil, fmt.Errorf("row %d column %q: %w", row+1, col.Name, err)
		}
		out[i] = v
	}
	return out, nil
}

func (t *Table) value(raw string, row, col int, typ ColumnType) (any, error) {
	if typ == TypeTimestamp {
		ts := t.timestamps[col][row]
		if !ts.valid {
			return nil, nil
		}
		return ts.t, nil
	}

	if IsNA(raw) {
		return nil, nil
	}

	switch typ {
	case TypeBigInt:
		return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	case TypeNumeric:
		return decimal.NewFromString(strings.TrimSpace(raw))
	case TypeBoolean:
		b, ok := parseBool(strings.TrimSpace(raw))
		if !ok {
			return nil, fmt.Errorf("invalid boolean %q", raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}
