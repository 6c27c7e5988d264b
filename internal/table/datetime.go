package table

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/fraudlab/txload/pkg/txload"
)

// ParseTimestamp converts text to a timestamp, detecting the layout from the
// text itself. Values with an explicit offset are normalized to UTC; values
// without one are read as wall-clock time. The result always has location UTC,
// so identical text always yields an identical value.
//
// Digit-only text longer than yyyymmdd is rejected: the layout detection
// would otherwise read it as a Unix epoch.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len("20060102") && isDigits(s) {
		return time.Time{}, fmt.Errorf("%q looks like an epoch number, not a date", s)
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseTimestamps converts the named columns to TypeTimestamp. NULL cells stay
// NULL. If a column is missing or any value fails to parse, the table is left
// unchanged and the error wraps txload.ErrDateParse.
func (t *Table) ParseTimestamps(columns ...string) error {
	converted := make(map[int][]nullTime, len(columns))

	for _, name := range columns {
		col := t.Index(name)
		if col < 0 {
			return fmt.Errorf("%w: column %q not found (have %s)", txload.ErrDateParse, name, strings.Join(t.ColumnNames(), ", "))
		}
		if _, done := converted[col]; done {
			continue
		}

		// Source text of an already converted column is still in records,
		// so a repeated call parses it again and yields the same values.
		values := make([]nullTime, len(t.records))
		for row, rec := range t.records {
			raw := rec[col]
			if IsNA(raw) {
				continue
			}
			ts, err := ParseTimestamp(raw)
			if err != nil {
				return fmt.Errorf("%w: column %q row %d: cannot parse %q: %w",
					txload.ErrDateParse, name, row+1, preview(raw), err)
			}
			values[row] = nullTime{t: ts, valid: true}
		}
		converted[col] = values
	}

	for col, values := range converted {
		t.timestamps[col] = values
		t.columns[col].Type = TypeTimestamp
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func preview(s string) string {
	if len(s) <= txload.MaxValuePreviewLength {
		return s
	}
	return s[:txload.MaxValuePreviewLength] + "..."
}
