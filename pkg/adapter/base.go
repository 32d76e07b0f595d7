package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/leapstack-labs/secom/pkg/table"
)

// BaseSQLAdapter provides the database/sql side of the SQL sinks.
// Embed it in concrete sinks to get Close, Exec, Query and WriteTable.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.logger().Debug("closing database connection")
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string, args ...any) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	if _, err := b.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query runs sqlStr and collects the result set into a table.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*table.Table, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return ScanTable(rows)
}

// WriteTable replaces the table name with the contents of t inside a single
// transaction. NaN cells are stored as NULL.
func (b *BaseSQLAdapter) WriteTable(ctx context.Context, name string, t *table.Table) (err error) {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	if t.NumCols() == 0 {
		return fmt.Errorf("table %q has no columns", name)
	}

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+QuoteIdent(name)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	if _, err = tx.ExecContext(ctx, CreateTableSQL(name, t.Schema())); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, InsertSQL(name, t.Columns()))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := 0; i < t.NumRows(); i++ {
		if _, err = stmt.ExecContext(ctx, rowArgs(t.RowValues(i))...); err != nil {
			return fmt.Errorf("failed to insert row %d into %s: %w", i, name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", name, err)
	}

	b.logger().Debug("wrote table", "table", name, "rows", t.NumRows(), "columns", t.NumCols())
	return nil
}

// QuoteIdent quotes a SQL identifier with double quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateTableSQL builds the CREATE TABLE statement for a schema.
func CreateTableSQL(name string, schema table.Schema) string {
	defs := make([]string, len(schema))
	for i, f := range schema {
		defs[i] = QuoteIdent(f.Name) + " " + f.Kind.SQLType()
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdent(name), strings.Join(defs, ", "))
}

// InsertSQL builds a single-row INSERT with ? placeholders.
func InsertSQL(name string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = QuoteIdent(c)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(name), strings.Join(quoted, ", "), placeholders)
}

func rowArgs(values []any) []any {
	for i, v := range values {
		if f, ok := v.(float64); ok && math.IsNaN(f) {
			values[i] = nil
		}
	}
	return values
}
