// Package sqlite provides a SQLite export sink backed by modernc.org/sqlite.
//
// Besides the exported tables, the database carries an exports ledger with
// one row per WriteTable call.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/secom/pkg/adapter"
	"github.com/leapstack-labs/secom/pkg/table"

	_ "modernc.org/sqlite" // sqlite driver
)

// Export is one ledger entry.
type Export struct {
	ID         string    `json:"id" yaml:"id"`
	RunID      string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Table      string    `json:"table" yaml:"table"`
	Rows       int       `json:"rows" yaml:"rows"`
	Columns    int       `json:"columns" yaml:"columns"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
}

// Adapter implements adapter.Adapter and adapter.Querier for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Connect opens the database at cfg.Path (in memory when empty) and
// migrates the exports ledger.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	a.DB = db
	a.Cfg = cfg
	a.Logger.Debug("connected to sqlite", "path", path)
	return nil
}

// WriteTable writes t and appends a ledger entry. The entry carries the
// run ID attached to ctx with adapter.WithRunID, if any.
func (a *Adapter) WriteTable(ctx context.Context, name string, t *table.Table) error {
	if err := a.BaseSQLAdapter.WriteTable(ctx, name, t); err != nil {
		return err
	}

	var runID sql.NullString
	if id := adapter.RunIDFrom(ctx); id != "" {
		runID = sql.NullString{String: id, Valid: true}
	}

	err := a.Exec(ctx,
		`INSERT INTO exports (id, run_id, table_name, row_count, column_count, exported_at) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), runID, name, t.NumRows(), t.NumCols(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record export of %s: %w", name, err)
	}
	return nil
}

// Exports lists the ledger, oldest first.
func (a *Adapter) Exports(ctx context.Context) ([]Export, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := a.DB.QueryContext(ctx,
		`SELECT id, run_id, table_name, row_count, column_count, exported_at FROM exports ORDER BY exported_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Export
	for rows.Next() {
		var e Export
		var runID sql.NullString
		if err := rows.Scan(&e.ID, &runID, &e.Table, &e.Rows, &e.Columns, &e.ExportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		e.RunID = runID.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exports: %w", err)
	}
	return out, nil
}

var (
	_ adapter.Adapter = (*Adapter)(nil)
	_ adapter.Querier = (*Adapter)(nil)
)
