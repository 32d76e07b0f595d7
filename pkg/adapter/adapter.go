// Package adapter provides the export sink interfaces and the shared
// database/sql implementation used by the SQL sinks.
//
// Concrete sinks live in pkg/adapters/ subdirectories and register
// themselves from init.
package adapter

import (
	"context"

	"github.com/leapstack-labs/secom/pkg/table"
)

// Config holds the sink connection settings.
type Config struct {
	// Type selects the registered sink ("duckdb", "sqlite", "xlsx", "csv").
	Type string `koanf:"type" validate:"required"`
	// Path is the database file, workbook, or output directory.
	// Empty means in-memory for the SQL sinks.
	Path string `koanf:"path"`
	// Options carries sink-specific settings.
	Options map[string]string `koanf:"options"`
}

// Adapter is an export sink for tables.
type Adapter interface {
	// Connect opens the sink.
	Connect(ctx context.Context, cfg Config) error

	// Close flushes and releases the sink.
	Close() error

	// WriteTable stores t under name, replacing any previous table of that name.
	WriteTable(ctx context.Context, name string, t *table.Table) error
}

// Querier is implemented by sinks that can run SQL over written tables.
type Querier interface {
	Query(ctx context.Context, sql string) (*table.Table, error)
}

type runIDKey struct{}

// WithRunID attaches a pipeline run ID to ctx for sinks that record it.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFrom returns the run ID attached to ctx, or "".
func RunIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
