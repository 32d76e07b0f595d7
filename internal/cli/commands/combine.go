package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/secom/pkg/pipeline"
)

// NewCombineCommand creates the combine command.
func NewCombineCommand() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Load all sources and merge them into one table",
		Long: `Load the features, labels and vendor data and inner-join them.

Rows are matched by position unless --join-key names a column present in all
three tables. Rows missing from any source are dropped with a warning, or
fail the run with --strict.`,
		Example: `  secom combine --data-dir ./data
  secom combine --strict --parallel -o json
  secom combine --show --preview 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			res, err := cc.Run(cmd.Context())
			if err != nil {
				return err
			}

			r := cc.Renderer
			if r.EffectiveMode().Structured() {
				return r.Data(summary(res))
			}

			r.Header(1, "Combined SECOM data")
			r.KeyValue("Run", res.RunID)
			r.KeyValue("Features", strconv.Itoa(res.Stats.FeatureRows)+" rows")
			r.KeyValue("Labels", strconv.Itoa(res.Stats.LabelRows)+" rows")
			r.KeyValue("Vendor", strconv.Itoa(res.Stats.VendorRows)+" rows")
			r.KeyValue("Merged", strconv.Itoa(res.Stats.MergedRows)+" rows, "+strconv.Itoa(res.Stats.MergedCols)+" columns")
			r.KeyValue("Duration", res.Stats.Duration.Round(time.Millisecond).String())
			if dropped := res.Stats.Dropped(); dropped > 0 {
				r.Warning(strconv.Itoa(dropped) + " rows dropped by the join")
			}
			if show {
				r.Println()
				return r.Table(res.Merged, cc.TableOptions(cmd))
			}
			return nil
		},
	}

	addCombineFlags(cmd.Flags())
	addPreviewFlags(cmd.Flags())
	cmd.Flags().BoolVar(&show, "show", false, "Print the merged table after the summary")
	return cmd
}

// runSummary is the structured form of a run.
type runSummary struct {
	RunID   string         `json:"run_id" yaml:"run_id"`
	Stats   pipeline.Stats `json:"stats" yaml:"stats"`
	Dropped int            `json:"dropped" yaml:"dropped"`
}

func summary(res *pipeline.Result) runSummary {
	return runSummary{RunID: res.RunID, Stats: res.Stats, Dropped: res.Stats.Dropped()}
}
