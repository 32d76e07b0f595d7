package table

// Dummies one-hot encodes a column into one Int indicator column per
// distinct non-null value. Indicator columns are named
// prefix + sep + value and ordered by ascending value. A null cell yields
// zero in every indicator.
func Dummies(c *Column, prefix, sep string) []*Column {
	categories := c.Distinct()
	out := make([]*Column, len(categories))
	for j, cat := range categories {
		key := FormatValue(cat)
		v := make([]any, c.Len())
		for i := 0; i < c.Len(); i++ {
			cell := c.Value(i)
			if cell != nil && FormatValue(cell) == key {
				v[i] = int64(1)
			} else {
				v[i] = int64(0)
			}
		}
		out[j] = &Column{name: prefix + sep + key, kind: Int, values: v}
	}
	return out
}

// GetDummies one-hot encodes the named columns, each prefixed by its own
// name and "_". With no names, every String column is encoded. Columns that
// are not encoded keep their relative order and come first, followed by the
// indicator columns of each encoded column in turn.
func (t *Table) GetDummies(names ...string) (*Table, error) {
	if len(names) == 0 {
		for _, f := range t.Schema().OfKind(String) {
			names = append(names, f.Name)
		}
	}
	encode := make(map[string]struct{}, len(names))
	for _, n := range names {
		if !t.HasColumn(n) {
			return nil, &MissingColumnError{Name: n, Available: t.Columns()}
		}
		encode[n] = struct{}{}
	}

	cols := make([]*Column, 0, len(t.columns))
	for _, c := range t.columns {
		if _, ok := encode[c.Name()]; !ok {
			cols = append(cols, c)
		}
	}
	for _, n := range names {
		c, _ := t.Column(n)
		cols = append(cols, Dummies(c, c.Name(), "_")...)
	}
	return build(t.index, cols)
}
