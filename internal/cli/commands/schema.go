package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/secom/pkg/pipeline"
	"github.com/leapstack-labs/secom/pkg/table"
)

const mergedSource = "merged"

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <features|labels|vendor|merged>",
		Short: "Show the columns a source produces",
		Long: `Show the column names and kinds of one source after loading, or of the
merged table when the source is "merged".`,
		Example: `  secom schema labels
  secom schema vendor --feature-engineer=false
  secom schema merged -o yaml`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"features", "labels", "vendor", mergedSource},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			t, err := loadNamed(cmd, cc, args[0])
			if err != nil {
				return err
			}
			return cc.Renderer.Schema(args[0], t.Schema())
		},
	}
	addCombineFlags(cmd.Flags())
	return cmd
}

func loadNamed(cmd *cobra.Command, cc *CommandContext, name string) (*table.Table, error) {
	if name == mergedSource {
		res, err := cc.Run(cmd.Context())
		if err != nil {
			return nil, err
		}
		return res.Merged, nil
	}

	src, err := pipeline.ParseSource(name)
	if err != nil {
		return nil, err
	}
	t, err := pipeline.Load(cc.Pipeline(), src)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", src, err)
	}
	return t, nil
}
