package table

import "strings"

// Field describes one column of a table.
type Field struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// Schema is the ordered list of fields of a table.
type Schema []Field

// Schema returns the runtime schema of the table.
func (t *Table) Schema() Schema {
	s := make(Schema, len(t.columns))
	for i, c := range t.columns {
		s[i] = Field{Name: c.Name(), Kind: c.Kind()}
	}
	return s
}

// Names returns the field names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the field with the given name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// OfKind returns the fields of kind k.
func (s Schema) OfKind(k Kind) Schema {
	var out Schema
	for _, f := range s {
		if f.Kind == k {
			out = append(out, f)
		}
	}
	return out
}

// WithPrefix returns the fields whose name starts with prefix.
func (s Schema) WithPrefix(prefix string) Schema {
	var out Schema
	for _, f := range s {
		if strings.HasPrefix(f.Name, prefix) {
			out = append(out, f)
		}
	}
	return out
}

// AllPrefixed reports whether every field name starts with prefix.
func (s Schema) AllPrefixed(prefix string) bool {
	return len(s.WithPrefix(prefix)) == len(s)
}
