package output

import (
	"fmt"
	"math"
	"time"

	prettytable "github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/secom/pkg/table"
)

// TableOptions bounds a table preview.
type TableOptions struct {
	// MaxRows limits the rows shown; 0 shows all.
	MaxRows int
	// MaxCols limits the columns shown in text and markdown; 0 shows all.
	MaxCols int
}

// Records converts up to maxRows rows into JSON/YAML friendly maps. NaN
// becomes null and timestamps become RFC 3339 strings.
func Records(t *table.Table, maxRows int) []map[string]any {
	n := t.NumRows()
	if maxRows > 0 && maxRows < n {
		n = maxRows
	}
	names := t.Columns()
	out := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		row := make(map[string]any, len(names))
		for j, v := range t.RowValues(i) {
			row[names[j]] = plainValue(v)
		}
		out[i] = row
	}
	return out
}

func plainValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return v
	}
}

// Table writes a preview of t. Structured modes emit records; text and
// markdown draw a grid followed by the row count.
func (r *Renderer) Table(t *table.Table, opts TableOptions) error {
	mode := r.EffectiveMode()
	if mode.Structured() {
		return r.Data(Records(t, opts.MaxRows))
	}

	if t.NumRows() == 0 {
		r.Println("(0 rows)")
		return nil
	}

	cols := t.NumCols()
	if opts.MaxCols > 0 && opts.MaxCols < cols {
		cols = opts.MaxCols
	}
	rows := t.NumRows()
	if opts.MaxRows > 0 && opts.MaxRows < rows {
		rows = opts.MaxRows
	}

	w := prettytable.NewWriter()
	w.SetOutputMirror(r.out)
	w.SetStyle(prettytable.StyleLight)

	header := make(prettytable.Row, cols)
	for j := 0; j < cols; j++ {
		header[j] = t.ColumnAt(j).Name()
	}
	w.AppendHeader(header)

	for i := 0; i < rows; i++ {
		row := make(prettytable.Row, cols)
		for j := 0; j < cols; j++ {
			v := t.ColumnAt(j).Value(i)
			if v == nil {
				row[j] = "NULL"
			} else {
				row[j] = table.FormatValue(v)
			}
		}
		w.AppendRow(row)
	}

	if mode == ModeMarkdown {
		w.RenderMarkdown()
	} else {
		w.Render()
	}

	summary := fmt.Sprintf("(%d rows", t.NumRows())
	if rows < t.NumRows() {
		summary += fmt.Sprintf(", %d shown", rows)
	}
	if cols < t.NumCols() {
		summary += fmt.Sprintf(", %d of %d columns", cols, t.NumCols())
	}
	r.Println(r.Muted(summary + ")"))
	return nil
}

// Schema writes the fields of a table.
func (r *Renderer) Schema(name string, s table.Schema) error {
	if r.EffectiveMode().Structured() {
		return r.Data(map[string]any{"name": name, "columns": s})
	}

	r.Header(2, fmt.Sprintf("%s (%d columns)", name, len(s)))
	w := prettytable.NewWriter()
	w.SetOutputMirror(r.out)
	w.SetStyle(prettytable.StyleLight)
	w.AppendHeader(prettytable.Row{"#", "Column", "Kind"})
	for i, f := range s {
		w.AppendRow(prettytable.Row{i, f.Name, f.Kind.String()})
	}
	if r.EffectiveMode() == ModeMarkdown {
		w.RenderMarkdown()
	} else {
		w.Render()
	}
	return nil
}
