// Package cli provides the command-line interface for secom.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/secom/internal/cli/commands"
	"github.com/leapstack-labs/secom/internal/cli/config"
	"github.com/leapstack-labs/secom/internal/cli/output"
	"github.com/leapstack-labs/secom/pkg/pipeline"

	// Sinks register themselves for export.type.
	_ "github.com/leapstack-labs/secom/pkg/adapters/csv"
	_ "github.com/leapstack-labs/secom/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/secom/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/secom/pkg/adapters/xlsx"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "secom",
		Short: "secom - SECOM dataset loader",
		Long: `secom loads the UCI SECOM semiconductor manufacturing dataset.

It reads the sensor feature matrix, the pass/fail labels and the vendor
metadata JSON, engineers date and category features, and merges the three
sources into one table that can be previewed, queried or exported.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}

			loader := config.NewLoader()
			cfg, err := loader.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if used := loader.FileUsed(); used != "" {
				logger.Debug("using config file", "path", used)
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./secom.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding the SECOM files")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json|yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, len(output.Modes))
		for i, m := range output.Modes {
			modes[i] = string(m)
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})

	for _, src := range pipeline.Sources {
		rootCmd.AddCommand(commands.NewSourceCommand(src))
	}
	rootCmd.AddCommand(commands.NewCombineCommand())
	rootCmd.AddCommand(commands.NewSchemaCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger writes text logs to w: debug and up when verbose, warnings
// otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for secom.

To load completions:

Bash:
  $ source <(secom completion bash)

  # To load completions for each session, execute once:
  $ secom completion bash > /etc/bash_completion.d/secom

Zsh:
  $ secom completion zsh > "${fpath[1]}/_secom"

Fish:
  $ secom completion fish > ~/.config/fish/completions/secom.fish

PowerShell:
  PS> secom completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
