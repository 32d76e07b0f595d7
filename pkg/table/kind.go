package table

import (
	"fmt"
	"strings"
)

// Kind is the value type of a column.
type Kind int

// Supported column kinds.
const (
	Float Kind = iota
	Int
	String
	Bool
	Time
)

var kindNames = map[Kind]string{
	Float:  "float",
	Int:    "int",
	String: "string",
	Bool:   "bool",
	Time:   "time",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name so schemas render readably as JSON/YAML.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for kind, n := range kindNames {
		if n == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown column kind %q", string(text))
}

// SQLType returns a portable SQL type for the kind. It is the type used by
// the SQL export sinks when creating tables.
func (k Kind) SQLType() string {
	switch k {
	case Float:
		return "DOUBLE"
	case Int:
		return "BIGINT"
	case Bool:
		return "BOOLEAN"
	case Time:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}
