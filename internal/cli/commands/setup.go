package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/secom/internal/cli/config"
	"github.com/leapstack-labs/secom/internal/cli/output"
	"github.com/leapstack-labs/secom/pkg/pipeline"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the context from the config and logger the root
// command stored, writing to the command's output streams.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.OutputMode(cfg.OutputFormat)),
	}
}

// Pipeline returns the pipeline configuration for the loaded settings.
func (c *CommandContext) Pipeline() pipeline.Config {
	return c.Cfg.Pipeline(c.Logger)
}

// Run executes the full pipeline.
func (c *CommandContext) Run(ctx context.Context) (*pipeline.Result, error) {
	return pipeline.Run(ctx, c.Pipeline())
}

// TableOptions returns the preview bounds for table output.
func (c *CommandContext) TableOptions(cmd *cobra.Command) output.TableOptions {
	opts := output.TableOptions{MaxRows: c.Cfg.Preview}
	if cmd.Flags().Lookup("columns") != nil {
		opts.MaxCols, _ = cmd.Flags().GetInt("columns")
	}
	return opts
}

// Flags shared by the commands that read the source files. Values reach
// the config through the loader, so the defaults here are only shown in help.

func addSourceFlags(fs *pflag.FlagSet) {
	fs.String("features-file", "secom.data", "Feature matrix file name")
	fs.String("labels-file", "secom_labels.data", "Label file name")
	fs.String("vendor-file", "vendordata.json", "Vendor JSON file name")
	fs.Bool("feature-engineer", true, "Derive date features and one-hot encode vendor fields")
	fs.Bool("human-labels", false, "Recode targets as Pass/Fail")
	fs.String("date-order", "dmy", "Day/month order of label timestamps (dmy|mdy)")
	fs.String("index-field", "index", "Vendor record field holding the row index")
	fs.Bool("date-ordinal", false, "Keep json_datetime_ordinal in the vendor table")
}

func addCombineFlags(fs *pflag.FlagSet) {
	addSourceFlags(fs)
	fs.String("join-key", "", "Join on this column instead of the row position")
	fs.Bool("strict", false, "Fail when the join drops rows")
	fs.Bool("parallel", false, "Load the three sources concurrently")
}

func addPreviewFlags(fs *pflag.FlagSet) {
	fs.Int("preview", 10, "Rows to show (0 for all)")
	fs.Int("columns", 8, "Columns to show in text and markdown output (0 for all)")
}
