package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/secom/pkg/pipeline"
)

var sourceDescriptions = map[pipeline.Source]string{
	pipeline.SourceFeatures: "Load the sensor feature matrix (s_data_*)",
	pipeline.SourceLabels:   "Load the pass/fail labels and timestamps (s_label_*)",
	pipeline.SourceVendor:   "Load the vendor metadata JSON (json_*)",
}

// NewSourceCommand creates the command that loads and previews one source.
func NewSourceCommand(src pipeline.Source) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(src),
		Short: sourceDescriptions[src],
		Long: fmt.Sprintf(`%s.

Reads the file from the data directory, applies the same transformations the
combine step uses, and prints the first rows.`, sourceDescriptions[src]),
		Example: fmt.Sprintf(`  secom %[1]s --data-dir ./data
  secom %[1]s --preview 0 -o json`, src),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSource(cmd, src)
		},
	}
	addSourceFlags(cmd.Flags())
	addPreviewFlags(cmd.Flags())
	return cmd
}

func runSource(cmd *cobra.Command, src pipeline.Source) error {
	cc := NewCommandContext(cmd)
	t, err := pipeline.Load(cc.Pipeline(), src)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", src, err)
	}

	r := cc.Renderer
	if !r.EffectiveMode().Structured() {
		r.Header(2, string(src))
		r.KeyValue("Rows", strconv.Itoa(t.NumRows()))
		r.KeyValue("Columns", strconv.Itoa(t.NumCols()))
		r.Println()
	}
	return r.Table(t, cc.TableOptions(cmd))
}
