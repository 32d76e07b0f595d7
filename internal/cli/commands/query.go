package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/secom/pkg/adapter"
	"github.com/leapstack-labs/secom/pkg/adapters/duckdb"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL over the loaded tables",
		Long: `Run the pipeline, load the results into an in-memory DuckDB database and
execute a SQL query against them.

Tables: features, labels, vendor, and the merged table (named by
export.table, "secom" by default).`,
		Example: `  secom query "SELECT s_label_target, count(*) FROM secom GROUP BY 1"
  secom query -i report.sql -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlStr, err := querySQL(args, input)
			if err != nil {
				return err
			}
			return runQuery(cmd, sqlStr)
		},
	}

	addCombineFlags(cmd.Flags())
	addPreviewFlags(cmd.Flags())
	cmd.Flags().StringVarP(&input, "input", "i", "", "Read SQL from file")
	cmd.Flags().String("table", "secom", "Name of the merged table")
	return cmd
}

func querySQL(args []string, input string) (string, error) {
	switch {
	case input != "" && len(args) > 0:
		return "", fmt.Errorf("pass SQL as an argument or with --input, not both")
	case input != "":
		data, err := os.ReadFile(input) //nolint:gosec // user-supplied query file
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", input, err)
		}
		return strings.TrimSpace(string(data)), nil
	case len(args) == 1 && strings.TrimSpace(args[0]) != "":
		return args[0], nil
	default:
		return "", fmt.Errorf("no SQL given")
	}
}

func runQuery(cmd *cobra.Command, sqlStr string) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	res, err := cc.Run(ctx)
	if err != nil {
		return err
	}

	db := duckdb.New(cc.Logger)
	if err := db.Connect(ctx, adapter.Config{Type: "duckdb"}); err != nil {
		return fmt.Errorf("failed to open query database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := writeTables(adapter.WithRunID(ctx, res.RunID), db, exportTables(res, cc.Cfg.Export.Table, true)); err != nil {
		return err
	}

	t, err := db.Query(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return cc.Renderer.Table(t, cc.TableOptions(cmd))
}
