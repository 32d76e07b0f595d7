package duckdb

import (
	"log/slog"

	"github.com/leapstack-labs/secom/pkg/adapter"
)

func init() {
	adapter.Register("duckdb", "DuckDB database file (or in-memory), queryable with SQL",
		func(l *slog.Logger) adapter.Adapter { return New(l) })
}
