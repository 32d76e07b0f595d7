package secom

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/secom/pkg/table"
)

// LoadVendor reads the vendor metadata JSON.
//
// Rows are ordered by the index field when every record carries one, and by
// position otherwise. With feature engineering (the default) the datetime
// field is required and dropped, and every string field is one-hot encoded
// into <field>_<value> indicators. All columns are prefixed json_ and spaces
// in names become underscores.
func LoadVendor(dir string, opts ...Option) (*table.Table, error) {
	o := newOptions(DefaultVendorFile, opts)
	logger := o.logger.With("source", "vendor")

	path := filepath.Join(dir, o.filename)
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the caller
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	recs, err := decodeVendorJSON(path, data)
	if err != nil {
		return nil, err
	}
	logger.Debug("loading vendor data", "path", path, "rows", len(recs.rows),
		"fields", len(recs.fields), "feature_engineer", o.featureEngineer)

	t, err := vendorTable(path, recs, o.indexField)
	if err != nil {
		return nil, err
	}
	t = t.SortByIndex()

	if o.featureEngineer {
		if t, err = engineerVendor(path, t, o.keepDateOrdinal); err != nil {
			return nil, err
		}
	} else if t.HasColumn(datetimeColumn) {
		if t, err = vendorTimestamps(path, t); err != nil {
			return nil, err
		}
	}

	t, err = t.AddPrefix(VendorPrefix).ReplaceInNames(" ", "_")
	if err != nil {
		return nil, collisionError(path, err)
	}

	logger.Debug("loaded vendor data", "rows", t.NumRows(), "columns", t.NumCols())
	return t, nil
}

// vendorTable builds the raw table and its index.
func vendorTable(path string, recs *vendorRecords, indexField string) (*table.Table, error) {
	index, explicit, err := vendorIndex(path, recs, indexField)
	if err != nil {
		return nil, err
	}

	cols := make([]*table.Column, 0, len(recs.fields))
	for _, field := range recs.fields {
		if explicit && field == indexField {
			continue
		}
		cells := make([]any, len(recs.rows))
		for i, row := range recs.rows {
			cells[i] = row[field]
		}
		cols = append(cols, inferColumn(field, cells))
	}
	return table.NewWithIndex(index, cols...)
}

// vendorIndex returns the row labels. An index field present on some but
// not all records is a schema error.
func vendorIndex(path string, recs *vendorRecords, indexField string) ([]int, bool, error) {
	n := len(recs.rows)
	index := make([]int, n)

	present := 0
	for _, row := range recs.rows {
		if _, ok := row[indexField]; ok {
			present++
		}
	}

	switch {
	case indexField != "" && present == n && n > 0:
		for i, row := range recs.rows {
			num, ok := row[indexField].(json.Number)
			if !ok {
				return nil, false, &SchemaError{Path: path, Field: indexField, Message: "must be an integer"}
			}
			v, err := num.Int64()
			if err != nil {
				return nil, false, &SchemaError{Path: path, Field: indexField, Message: "must be an integer"}
			}
			index[i] = int(v)
		}
		return index, true, nil
	case present > 0:
		return nil, false, &SchemaError{
			Path:    path,
			Field:   indexField,
			Message: fmt.Sprintf("present on %d of %d records", present, n),
		}
	case recs.labels != nil:
		copy(index, recs.labels)
	default:
		for i := range index {
			index[i] = i
		}
	}
	return index, false, nil
}

// inferColumn picks the narrowest kind that holds every non-null cell.
// Mixed cells fall back to their text form.
func inferColumn(name string, cells []any) *table.Column {
	var numbers, bools, nonNull int
	isInt := true
	for _, c := range cells {
		switch v := c.(type) {
		case nil:
			continue
		case json.Number:
			numbers++
			if _, err := v.Int64(); err != nil {
				isInt = false
			}
		case bool:
			bools++
		}
		nonNull++
	}

	values := make([]any, len(cells))
	switch {
	case nonNull > 0 && numbers == nonNull && isInt:
		for i, c := range cells {
			if n, ok := c.(json.Number); ok {
				v, _ := n.Int64()
				values[i] = v
			}
		}
		return table.NewColumn(name, table.Int, values)
	case nonNull > 0 && numbers == nonNull:
		for i, c := range cells {
			if n, ok := c.(json.Number); ok {
				v, _ := n.Float64()
				values[i] = v
			}
		}
		return table.NewColumn(name, table.Float, values)
	case nonNull > 0 && bools == nonNull:
		copy(values, cells)
		return table.NewColumn(name, table.Bool, values)
	default:
		for i, c := range cells {
			switch v := c.(type) {
			case nil:
			case string:
				values[i] = v
			case json.Number:
				values[i] = v.String()
			case bool:
				values[i] = table.FormatValue(v)
			default:
				b, _ := json.Marshal(v)
				values[i] = string(b)
			}
		}
		return table.NewColumn(name, table.String, values)
	}
}

func engineerVendor(path string, t *table.Table, keepOrdinal bool) (*table.Table, error) {
	if !t.HasColumn(datetimeColumn) {
		return nil, &SchemaError{Path: path, Field: datetimeColumn, Message: "is required for feature engineering"}
	}

	var err error
	if keepOrdinal {
		stamps, err := vendorTimes(path, t)
		if err != nil {
			return nil, err
		}
		ordinals := make([]any, len(stamps))
		for i, ts := range stamps {
			if ts != nil {
				ordinals[i] = Ordinal(*ts)
			}
		}
		if t, err = t.WithColumn(table.NewColumn(vendorOrdinalColumn, table.Int, ordinals)); err != nil {
			return nil, err
		}
	}

	if t, err = t.Drop(datetimeColumn); err != nil {
		return nil, err
	}
	encoded, err := t.GetDummies()
	if err != nil {
		return nil, collisionError(path, err)
	}
	return encoded, nil
}

// collisionError reports two columns that end up with the same name, such
// as the values "Acme Corp" and "Acme_Corp" of one field.
func collisionError(path string, err error) error {
	var dup *table.DuplicateColumnError
	if errors.As(err, &dup) {
		return &SchemaError{Path: path, Field: dup.Name, Message: "collides after sanitizing"}
	}
	return fmt.Errorf("failed to name vendor columns: %w", err)
}

// vendorTimestamps replaces the datetime column with a time column.
func vendorTimestamps(path string, t *table.Table) (*table.Table, error) {
	stamps, err := vendorTimes(path, t)
	if err != nil {
		return nil, err
	}
	values := make([]any, len(stamps))
	for i, ts := range stamps {
		if ts != nil {
			values[i] = *ts
		}
	}
	return t.WithColumn(table.NewColumn(datetimeColumn, table.Time, values))
}

// vendorTimes parses the datetime column. Strings are parsed as dates;
// integers are epoch milliseconds, the encoding pandas writes by default.
func vendorTimes(path string, t *table.Table) ([]*time.Time, error) {
	c, _ := t.Column(datetimeColumn)
	out := make([]*time.Time, c.Len())
	for i := 0; i < c.Len(); i++ {
		var ts time.Time
		switch v := c.Value(i).(type) {
		case nil:
			continue
		case int64:
			ts = time.UnixMilli(v).UTC()
		case string:
			parsed, err := parseTimestamp(v, MonthFirst)
			if err != nil {
				return nil, &ParseError{Path: path, Message: fmt.Sprintf("record %d: invalid datetime", i), Err: err}
			}
			ts = parsed
		default:
			return nil, &ParseError{Path: path, Message: fmt.Sprintf("record %d: unsupported datetime value %v", i, v)}
		}
		out[i] = &ts
	}
	return out, nil
}
