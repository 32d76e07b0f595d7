package table

import (
	"sort"
	"time"
)

// sortValues orders values of a single kind ascending.
func sortValues(values []any) {
	sort.SliceStable(values, func(i, j int) bool {
		return lessValue(values[i], values[j])
	})
}

func lessValue(a, b any) bool {
	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok {
			return x < y
		}
	case int64:
		if y, ok := b.(int64); ok {
			return x < y
		}
	case string:
		if y, ok := b.(string); ok {
			return x < y
		}
	case bool:
		if y, ok := b.(bool); ok {
			return !x && y
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Before(y)
		}
	}
	return FormatValue(a) < FormatValue(b)
}
