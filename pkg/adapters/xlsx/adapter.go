// Package xlsx provides an Excel workbook export sink. Each written table
// becomes a worksheet with a bold header row; the workbook is saved on
// Close.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/leapstack-labs/secom/pkg/adapter"
	"github.com/leapstack-labs/secom/pkg/table"
)

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

type sheet struct {
	name  string
	table *table.Table
}

// Adapter implements adapter.Adapter for .xlsx workbooks.
type Adapter struct {
	path      string
	sheets    []sheet
	connected bool
	logger    *slog.Logger
}

// New creates a new workbook sink.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{logger: logger}
}

// Connect sets the workbook path. Nothing is written until Close.
func (a *Adapter) Connect(_ context.Context, cfg adapter.Config) error {
	if cfg.Path == "" {
		return fmt.Errorf("xlsx sink requires a workbook path")
	}
	a.path = cfg.Path
	a.sheets = nil
	a.connected = true
	return nil
}

// WriteTable stages t as the worksheet name, replacing an earlier table
// staged under the same sheet name.
func (a *Adapter) WriteTable(ctx context.Context, name string, t *table.Table) error {
	if !a.connected {
		return fmt.Errorf("workbook not opened")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sheetName := SheetName(name)
	for i := range a.sheets {
		if a.sheets[i].name == sheetName {
			a.sheets[i].table = t
			return nil
		}
	}
	a.sheets = append(a.sheets, sheet{name: sheetName, table: t})
	return nil
}

// Close writes the workbook. Closing an unopened sink is a no-op.
func (a *Adapter) Close() error {
	if !a.connected {
		return nil
	}
	a.connected = false

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, s := range a.sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, header); err != nil {
			return err
		}
	}

	if err := f.SaveAs(a.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", a.path, err)
	}
	a.logger.Debug("saved workbook", "path", a.path, "sheets", len(a.sheets))
	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	sw, err := f.NewStreamWriter(s.name)
	if err != nil {
		return fmt.Errorf("failed to open sheet %s: %w", s.name, err)
	}

	names := s.table.Columns()
	header := make([]any, len(names))
	for i, n := range names {
		header[i] = n
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", s.name, err)
	}

	for r := 0; r < s.table.NumRows(); r++ {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cellValues(s.table.RowValues(r))); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r, s.name, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet %s: %w", s.name, err)
	}
	return nil
}

// cellValues leaves NaN cells empty and renders timestamps as text.
func cellValues(values []any) []any {
	for i, v := range values {
		switch x := v.(type) {
		case float64:
			if math.IsNaN(x) {
				values[i] = nil
			}
		case time.Time:
			values[i] = table.FormatValue(x)
		}
	}
	return values
}

// SheetName maps a table name onto a valid worksheet name.
func SheetName(name string) string {
	name = sheetNameReplacer.Replace(name)
	if name == "" {
		name = "Sheet1"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

var _ adapter.Adapter = (*Adapter)(nil)
