package table

import (
	"fmt"
	"sort"
	"strings"
)

// Table is an immutable ordered collection of equal-length columns with a
// row index.
type Table struct {
	columns []*Column
	index   []int
	pos     map[string]int
}

// DuplicateColumnError is returned when a table would contain two columns
// with the same name.
type DuplicateColumnError struct {
	Name string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column %q", e.Name)
}

// MissingColumnError is returned when a named column does not exist.
type MissingColumnError struct {
	Name      string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found (have %d columns)", e.Name, len(e.Available))
}

// New creates a table with the default index 0..n-1.
func New(columns ...*Column) (*Table, error) {
	n := 0
	if len(columns) > 0 {
		n = columns[0].Len()
	}
	index := make([]int, n)
	for i := range index {
		index[i] = i
	}
	return build(index, columns)
}

// NewWithIndex creates a table with an explicit row index.
func NewWithIndex(index []int, columns ...*Column) (*Table, error) {
	idx := make([]int, len(index))
	copy(idx, index)
	return build(idx, columns)
}

func build(index []int, columns []*Column) (*Table, error) {
	pos := make(map[string]int, len(columns))
	cols := make([]*Column, len(columns))
	for i, c := range columns {
		if c.Len() != len(index) {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name(), c.Len(), len(index))
		}
		if _, dup := pos[c.Name()]; dup {
			return nil, &DuplicateColumnError{Name: c.Name()}
		}
		pos[c.Name()] = i
		cols[i] = c
	}
	return &Table{columns: cols, index: index, pos: pos}, nil
}

// mustBuild is used by transforms whose invariants already guarantee a valid
// table.
func mustBuild(index []int, columns []*Column) *Table {
	t, err := build(index, columns)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.index) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// Index returns a copy of the row index labels.
func (t *Table) Index() []int {
	out := make([]int, len(t.index))
	copy(out, t.index)
	return out
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.pos[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// ColumnAt returns the column at position i.
func (t *Table) ColumnAt(i int) *Column { return t.columns[i] }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.pos[name]
	return ok
}

// Row returns row i as a map from column name to cell value.
func (t *Table) Row(i int) map[string]any {
	row := make(map[string]any, len(t.columns))
	for _, c := range t.columns {
		row[c.Name()] = c.Value(i)
	}
	return row
}

// RowValues returns row i as a slice ordered like Columns.
func (t *Table) RowValues(i int) []any {
	row := make([]any, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Value(i)
	}
	return row
}

// AddPrefix prefixes every column name.
func (t *Table) AddPrefix(prefix string) *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.rename(prefix + c.Name())
	}
	return mustBuild(t.index, cols)
}

// RenameColumns applies fn to every column name.
func (t *Table) RenameColumns(fn func(string) string) (*Table, error) {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.rename(fn(c.Name()))
	}
	return build(t.index, cols)
}

// ReplaceInNames replaces every occurrence of old with repl in column names.
func (t *Table) ReplaceInNames(old, repl string) (*Table, error) {
	return t.RenameColumns(func(name string) string {
		return strings.ReplaceAll(name, old, repl)
	})
}

// Drop removes the named columns. Naming an absent column is an error.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		if !t.HasColumn(n) {
			return nil, &MissingColumnError{Name: n, Available: t.Columns()}
		}
		drop[n] = struct{}{}
	}
	cols := make([]*Column, 0, len(t.columns))
	for _, c := range t.columns {
		if _, ok := drop[c.Name()]; !ok {
			cols = append(cols, c)
		}
	}
	return mustBuild(t.index, cols), nil
}

// Select returns a table with only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		c, ok := t.Column(n)
		if !ok {
			return nil, &MissingColumnError{Name: n, Available: t.Columns()}
		}
		cols = append(cols, c)
	}
	return build(t.index, cols)
}

// WithColumn returns a table with c appended, or replacing the column of
// the same name in place.
func (t *Table) WithColumn(c *Column) (*Table, error) {
	if c.Len() != t.NumRows() {
		return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name(), c.Len(), t.NumRows())
	}
	cols := make([]*Column, len(t.columns), len(t.columns)+1)
	copy(cols, t.columns)
	if i, ok := t.pos[c.Name()]; ok {
		cols[i] = c
	} else {
		cols = append(cols, c)
	}
	return build(t.index, cols)
}

// WithIndex returns the same columns under a new row index.
func (t *Table) WithIndex(index []int) (*Table, error) {
	return NewWithIndex(index, t.columns...)
}

// ResetIndex replaces the index with 0..n-1.
func (t *Table) ResetIndex() *Table {
	index := make([]int, t.NumRows())
	for i := range index {
		index[i] = i
	}
	return mustBuild(index, t.columns)
}

// SortByIndex orders rows by ascending index label. The sort is stable.
func (t *Table) SortByIndex() *Table {
	order := make([]int, t.NumRows())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.index[order[a]] < t.index[order[b]]
	})
	return t.take(order)
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > t.NumRows() {
		n = t.NumRows()
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return t.take(order)
}

func (t *Table) take(rows []int) *Table {
	index := make([]int, len(rows))
	for i, r := range rows {
		index[i] = t.index[r]
	}
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.take(rows)
	}
	return mustBuild(index, cols)
}

// Equal reports whether two tables have the same index, column names,
// kinds and cell values. NaN cells compare equal.
func (t *Table) Equal(o *Table) bool {
	if t.NumRows() != o.NumRows() || t.NumCols() != o.NumCols() {
		return false
	}
	for i := range t.index {
		if t.index[i] != o.index[i] {
			return false
		}
	}
	for i, c := range t.columns {
		oc := o.columns[i]
		if c.Name() != oc.Name() || c.Kind() != oc.Kind() {
			return false
		}
		for r := 0; r < c.Len(); r++ {
			if !valuesEqual(c.Value(r), oc.Value(r)) {
				return false
			}
		}
	}
	return true
}
