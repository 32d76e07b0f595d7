// Package duckdb provides a DuckDB export sink. Written tables can be
// queried with SQL, which the query command uses with an in-memory
// database.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/leapstack-labs/secom/pkg/adapter"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// MemoryPath opens a transient database.
const MemoryPath = ":memory:"

var settingName = regexp.MustCompile(`^[a-z_]+$`)

// Adapter implements adapter.Adapter and adapter.Querier for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Connect opens the database at cfg.Path, in memory when empty. Entries of
// cfg.Options are applied as session settings, e.g. threads or
// memory_limit.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = MemoryPath
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.DB = db
	a.Cfg = cfg

	if err := a.applySettings(ctx, cfg.Options); err != nil {
		_ = a.Close()
		a.DB = nil
		return err
	}

	a.Logger.Debug("connected to duckdb", "path", path)
	return nil
}

func (a *Adapter) applySettings(ctx context.Context, settings map[string]string) error {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !settingName.MatchString(k) {
			return fmt.Errorf("invalid duckdb setting name %q", k)
		}
		value := strings.ReplaceAll(settings[k], "'", "''")
		if err := a.Exec(ctx, fmt.Sprintf("SET %s = '%s'", k, value)); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", k, err)
		}
	}
	return nil
}

var (
	_ adapter.Adapter = (*Adapter)(nil)
	_ adapter.Querier = (*Adapter)(nil)
)
