package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/secom/pkg/adapter"
	"github.com/leapstack-labs/secom/pkg/pipeline"
	"github.com/leapstack-labs/secom/pkg/table"
)

// namedTable is one table handed to a sink.
type namedTable struct {
	Name  string
	Table *table.Table
}

// exportTables lists the tables of a run in write order. The merged table
// is always last.
func exportTables(res *pipeline.Result, mergedName string, all bool) []namedTable {
	var out []namedTable
	if all {
		out = append(out,
			namedTable{string(pipeline.SourceFeatures), res.Features},
			namedTable{string(pipeline.SourceLabels), res.Labels},
			namedTable{string(pipeline.SourceVendor), res.Vendor},
		)
	}
	return append(out, namedTable{mergedName, res.Merged})
}

// writeTables writes tables to a connected sink.
func writeTables(ctx context.Context, sink adapter.Adapter, tables []namedTable) error {
	for _, nt := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sink.WriteTable(ctx, nt.Name, nt.Table); err != nil {
			return fmt.Errorf("failed to write table %s: %w", nt.Name, err)
		}
	}
	return nil
}

// exportReport is the structured form of an export.
type exportReport struct {
	RunID  string   `json:"run_id" yaml:"run_id"`
	Sink   string   `json:"sink" yaml:"sink"`
	Path   string   `json:"path" yaml:"path"`
	Tables []string `json:"tables" yaml:"tables"`
	Rows   int      `json:"rows" yaml:"rows"`
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Combine the sources and write the result to a sink",
		Long: `Run the pipeline and write the merged table to the configured sink.

Sinks: duckdb and sqlite write database tables, xlsx writes one sheet per
table, csv writes one file per table into a directory. With --all the three
source tables are written alongside the merged one.`,
		Example: `  secom export --sink duckdb --path secom.duckdb
  secom export --sink sqlite --path secom.db --all
  secom export --sink xlsx --path secom.xlsx --table merged
  secom export sinks`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, all)
		},
	}

	addCombineFlags(cmd.Flags())
	cmd.Flags().String("sink", "duckdb", "Sink type (see 'secom export sinks')")
	cmd.Flags().String("path", "secom.duckdb", "Database file, workbook or directory to write")
	cmd.Flags().String("table", "secom", "Name of the merged table")
	cmd.Flags().BoolVar(&all, "all", false, "Also write the features, labels and vendor tables")
	_ = cmd.RegisterFlagCompletionFunc("sink", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return adapter.ListAdapters(), cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(newSinksCommand())
	return cmd
}

func runExport(cmd *cobra.Command, all bool) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	res, err := cc.Run(ctx)
	if err != nil {
		return err
	}

	sinkCfg := cc.Cfg.Export.Sink()
	sink, err := adapter.NewAdapter(sinkCfg, cc.Logger)
	if err != nil {
		return err
	}

	ctx = adapter.WithRunID(ctx, res.RunID)
	if err := sink.Connect(ctx, sinkCfg); err != nil {
		return fmt.Errorf("failed to connect to %s sink: %w", sinkCfg.Type, err)
	}
	closed := false
	defer func() {
		if !closed {
			_ = sink.Close()
		}
	}()

	tables := exportTables(res, cc.Cfg.Export.Table, all)
	if err := writeTables(ctx, sink, tables); err != nil {
		return err
	}

	closed = true
	if err := sink.Close(); err != nil {
		return fmt.Errorf("failed to close %s sink: %w", sinkCfg.Type, err)
	}

	report := exportReport{RunID: res.RunID, Sink: sinkCfg.Type, Path: sinkCfg.Path, Rows: res.Merged.NumRows()}
	for _, nt := range tables {
		report.Tables = append(report.Tables, nt.Name)
	}

	r := cc.Renderer
	if r.EffectiveMode().Structured() {
		return r.Data(report)
	}
	r.Success(fmt.Sprintf("Exported %d table(s) to %s", len(tables), sinkCfg.Type))
	r.KeyValue("Run", report.RunID)
	r.KeyValue("Path", report.Path)
	r.KeyValue("Rows", strconv.Itoa(report.Rows))
	if dropped := res.Stats.Dropped(); dropped > 0 {
		r.Warning(strconv.Itoa(dropped) + " rows dropped by the join")
	}
	return nil
}

func newSinksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sinks",
		Short: "List the available sink types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			infos := adapter.Registered()
			if cc.Renderer.EffectiveMode().Structured() {
				return cc.Renderer.Data(infos)
			}
			cc.Renderer.Header(2, "Sinks")
			for _, info := range infos {
				cc.Renderer.KeyValue(info.Name, info.Description)
			}
			return nil
		},
	}
}
