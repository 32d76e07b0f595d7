package secom

import (
	"fmt"
	"sort"
	"strings"
)

// FileNotFoundError is returned when an input file does not exist.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

func (e *FileNotFoundError) Unwrap() error { return e.Err }

// ParseError is returned for malformed delimited or JSON content and for
// values that cannot be interpreted (targets, timestamps, numbers).
// Line and Column are 1-based; zero means unknown.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error in ")
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ", column %d", e.Column)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError is returned when an expected field is absent.
type SchemaError struct {
	Path    string
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in %s: field %q %s", e.Path, e.Field, e.Message)
}

// RowCountMismatchError is returned by Combine in strict mode when the
// inputs do not all survive the join.
type RowCountMismatchError struct {
	// Counts maps each input name to its row count.
	Counts map[string]int
	// Rows is the row count of the joined table.
	Rows int
}

func (e *RowCountMismatchError) Error() string {
	names := make([]string, 0, len(e.Counts))
	for name := range e.Counts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, e.Counts[name])
	}
	return fmt.Sprintf("row count mismatch: joined %d rows from %s", e.Rows, strings.Join(parts, ", "))
}
