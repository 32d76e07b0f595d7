// Package csv provides a sink writing each table to <dir>/<name>.csv.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/secom/pkg/adapter"
	"github.com/leapstack-labs/secom/pkg/table"
)

// Adapter implements adapter.Adapter for a directory of CSV files.
type Adapter struct {
	dir    string
	logger *slog.Logger
}

// New creates a new CSV sink.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{logger: logger}
}

// Connect creates the output directory (default ".").
func (a *Adapter) Connect(_ context.Context, cfg adapter.Config) error {
	dir := cfg.Path
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	a.dir = dir
	return nil
}

// Close is a no-op; every file is closed by WriteTable.
func (a *Adapter) Close() error { return nil }

// WriteTable writes t with a header row. Nulls are empty fields and NaN is
// written as NaN.
func (a *Adapter) WriteTable(ctx context.Context, name string, t *table.Table) (err error) {
	if a.dir == "" {
		return fmt.Errorf("output directory not set")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(a.dir, name+".csv")
	f, err := os.Create(path) //nolint:gosec // path is built from the configured directory
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, t.NumCols())
	for r := 0; r < t.NumRows(); r++ {
		for c := range record {
			record[c] = table.FormatValue(t.ColumnAt(c).Value(r))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	a.logger.Debug("wrote csv", "path", path, "rows", t.NumRows())
	return nil
}

var _ adapter.Adapter = (*Adapter)(nil)
