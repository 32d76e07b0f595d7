package adapter

import (
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/leapstack-labs/secom/pkg/table"
)

// ScanTable reads every row of rows into a table. Column kinds follow the
// Go types the driver returns; a column whose cells disagree falls back to
// String.
func ScanTable(rows *sql.Rows) (*table.Table, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	cells := make([][]any, len(names))
	for rows.Next() {
		dest := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range dest {
			cells[i] = append(cells[i], normalize(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	cols := make([]*table.Column, len(names))
	for i, name := range names {
		cols[i] = resultColumn(name, cells[i])
	}
	return table.New(cols...)
}

func normalize(v any) any {
	switch x := v.(type) {
	case nil, float64, int64, string, bool, time.Time:
		return x
	case float32:
		return float64(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x) //nolint:gosec // counts and ids fit in int64
	case []byte:
		return string(x)
	case *big.Int:
		if x.IsInt64() {
			return x.Int64()
		}
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func kindOf(v any) table.Kind {
	switch v.(type) {
	case float64:
		return table.Float
	case int64:
		return table.Int
	case bool:
		return table.Bool
	case time.Time:
		return table.Time
	default:
		return table.String
	}
}

func resultColumn(name string, values []any) *table.Column {
	kind := table.String
	seen := false
	mixed := false
	for _, v := range values {
		if v == nil {
			continue
		}
		k := kindOf(v)
		switch {
		case !seen:
			kind, seen = k, true
		case k == kind:
		case isNumeric(k) && isNumeric(kind):
			kind = table.Float
		default:
			mixed = true
		}
	}

	switch {
	case mixed:
		text := make([]any, len(values))
		for i, v := range values {
			if v != nil {
				text[i] = table.FormatValue(v)
			}
		}
		return table.NewColumn(name, table.String, text)
	case kind == table.Float:
		floats := make([]any, len(values))
		for i, v := range values {
			if n, ok := v.(int64); ok {
				floats[i] = float64(n)
			} else {
				floats[i] = v
			}
		}
		return table.NewColumn(name, table.Float, floats)
	default:
		return table.NewColumn(name, kind, values)
	}
}

func isNumeric(k table.Kind) bool {
	return k == table.Float || k == table.Int
}
