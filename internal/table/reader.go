package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fraudlab/txload/pkg/txload"
)

// ReadOptions controls how a delimited file is tokenized.
type ReadOptions struct {
	// Delimiter separates fields. Zero means comma.
	Delimiter rune
}

// ReadFile reads a whole delimited file with a header row.
// Any failure wraps txload.ErrSourceFile.
func ReadFile(path string, opts ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", txload.ErrSourceFile, err)
	}
	defer f.Close()

	t, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read consumes r completely. The first record is the header; every
// following record must have the same number of fields.
func Read(r io.Reader, opts ReadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", txload.ErrSourceFile)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %w", txload.ErrSourceFile, err)
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", txload.ErrSourceFile, err)
		}
		records = append(records, rec)
	}

	t, err := New(header, records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", txload.ErrSourceFile, err)
	}
	return t, nil
}
