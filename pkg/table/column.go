package table

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Column is a named, typed sequence of cell values.
//
// Cells hold float64, int64, string, bool or time.Time according to the
// column Kind. A nil cell is a null.
type Column struct {
	name   string
	kind   Kind
	values []any
}

// NewColumn creates a column. The values slice is copied.
func NewColumn(name string, kind Kind, values []any) *Column {
	v := make([]any, len(values))
	copy(v, values)
	return &Column{name: name, kind: kind, values: v}
}

// NewFloatColumn creates a Float column.
func NewFloatColumn(name string, values []float64) *Column {
	v := make([]any, len(values))
	for i, f := range values {
		v[i] = f
	}
	return &Column{name: name, kind: Float, values: v}
}

// NewIntColumn creates an Int column.
func NewIntColumn(name string, values []int64) *Column {
	v := make([]any, len(values))
	for i, n := range values {
		v[i] = n
	}
	return &Column{name: name, kind: Int, values: v}
}

// NewStringColumn creates a String column.
func NewStringColumn(name string, values []string) *Column {
	v := make([]any, len(values))
	for i, s := range values {
		v[i] = s
	}
	return &Column{name: name, kind: String, values: v}
}

// NewTimeColumn creates a Time column.
func NewTimeColumn(name string, values []time.Time) *Column {
	v := make([]any, len(values))
	for i, ts := range values {
		v[i] = ts
	}
	return &Column{name: name, kind: Time, values: v}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the column value kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.values) }

// Value returns the cell at row i.
func (c *Column) Value(i int) any { return c.values[i] }

// Values returns a copy of all cells.
func (c *Column) Values() []any {
	out := make([]any, len(c.values))
	copy(out, c.values)
	return out
}

// Distinct returns the distinct non-null values in ascending order.
func (c *Column) Distinct() []any {
	seen := make(map[string]struct{}, len(c.values))
	var out []any
	for _, v := range c.values {
		if v == nil {
			continue
		}
		key := FormatValue(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	sortValues(out)
	return out
}

func (c *Column) rename(name string) *Column {
	return &Column{name: name, kind: c.kind, values: c.values}
}

func (c *Column) take(rows []int) *Column {
	v := make([]any, len(rows))
	for i, r := range rows {
		v[i] = c.values[r]
	}
	return &Column{name: c.name, kind: c.kind, values: v}
}

// FormatValue renders a cell value as text. It is used for one-hot column
// names, join keys and plain-text output.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", x)
	}
}

// valuesEqual compares two cells, treating NaN as equal to NaN.
func valuesEqual(a, b any) bool {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		if !ok {
			return false
		}
		if math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
		return x == y
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	default:
		return a == b
	}
}
