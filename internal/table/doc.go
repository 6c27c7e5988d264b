// Package table holds a delimited text file in memory as an ordered header
// plus rows, ready to be written to PostgreSQL.
//
// Reading normalizes the header (blank names become "Unnamed: <index>",
// repeated names get ".1", ".2" suffixes), treats the usual NA markers as
// NULL and infers one column type per column from the non-NULL values:
// bigint, numeric, boolean or text.
//
// ParseTimestamps converts named columns to timestamps with an auto-detecting
// date parser. The conversion is all-or-nothing per call: if any value fails,
// the table is left exactly as it was.
package table
