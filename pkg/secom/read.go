package secom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// openSource opens dir/name, mapping a missing file to FileNotFoundError.
func openSource(dir, name string) (*os.File, string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path) //nolint:gosec // path is chosen by the caller
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, path, &FileNotFoundError{Path: path, Err: err}
		}
		return nil, path, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, path, nil
}

// readDelimited reads a single-space delimited file without a header.
// Double-quoted fields may contain spaces. With fields > 0 every record must
// have exactly that many fields; with fields == 0 every record must match
// the first one.
func readDelimited(dir, name string, fields int) ([][]string, string, error) {
	f, path, err := openSource(dir, name)
	if err != nil {
		return nil, path, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ' '
	r.FieldsPerRecord = fields
	r.ReuseRecord = false

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, path, csvParseError(path, err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, path, &ParseError{Path: path, Message: "no data"}
	}
	return records, path, nil
}

func csvParseError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{
			Path:    path,
			Line:    pe.Line,
			Column:  pe.Column,
			Message: "malformed record",
			Err:     pe.Err,
		}
	}
	return &ParseError{Path: path, Message: "failed to read records", Err: err}
}
