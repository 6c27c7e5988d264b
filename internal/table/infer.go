package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	canInt = 1 << iota
	canNumeric
	canBool
)

// inferColumnType narrows the candidate types of column col over all non-NULL
// values. A column with no values at all is text.
func inferColumnType(records [][]string, col int) ColumnType {
	candidates := canInt | canNumeric | canBool
	seen := false

	for _, rec := range records {
		if IsNA(rec[col]) {
			continue
		}
		seen = true
		v := strings.TrimSpace(rec[col])

		if candidates&canInt != 0 {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				candidates &^= canInt
			}
		}
		if candidates&canNumeric != 0 {
			if _, err := decimal.NewFromString(v); err != nil {
				candidates &^= canNumeric
			}
		}
		if candidates&canBool != 0 {
			if _, ok := parseBool(v); !ok {
				candidates &^= canBool
			}
		}
		if candidates == 0 {
			return TypeText
		}
	}

	switch {
	case !seen:
		return TypeText
	case candidates&canInt != 0:
		return TypeBigInt
	case candidates&canNumeric != 0:
		return TypeNumeric
	case candidates&canBool != 0:
		return TypeBoolean
	default:
		return TypeText
	}
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}

// normalizeHeader names blank columns "Unnamed: <index>" and suffixes repeated
// names with ".1", ".2", ... in order of appearance.
func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		names[i] = h
	}

	seen := make(map[string]int, len(names))
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}

	for i, n := range names {
		count, dup := seen[n]
		if !dup {
			seen[n] = 0
			continue
		}
		for {
			count++
			candidate := fmt.Sprintf("%s.%d", n, count)
			if !taken[candidate] {
				names[i] = candidate
				taken[candidate] = true
				break
			}
		}
		seen[n] = count
	}
	return names
}
