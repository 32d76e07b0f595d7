package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/secom/internal/cli"
	"github.com/leapstack-labs/secom/internal/cli/config"
	"github.com/leapstack-labs/secom/pkg/adapter"
	"github.com/leapstack-labs/secom/pkg/pipeline"
)

// commandGroup is one section of the CLI index.
type commandGroup struct {
	Title    string
	Intro    string
	Commands []*cobra.Command
}

// groupCommands sorts the top-level commands into index sections. Commands
// not named by a section land in "Other".
func groupCommands(root *cobra.Command) []commandGroup {
	sources := make([]string, len(pipeline.Sources))
	for i, src := range pipeline.Sources {
		sources[i] = string(src)
	}

	groups := []commandGroup{
		{Title: "Sources", Intro: "Load and preview one input file."},
		{Title: "Pipeline", Intro: "Load all three inputs and work with the merged table."},
		{Title: "Export", Intro: "Write the tables of a run to a sink."},
		{Title: "Other"},
	}
	names := [][]string{sources, {"combine", "schema", "query"}, {"export"}}

	for _, cmd := range documented(root) {
		i := slices.IndexFunc(names, func(group []string) bool {
			return slices.Contains(group, cmd.Name())
		})
		if i < 0 {
			i = len(groups) - 1
		}
		groups[i].Commands = append(groups[i].Commands, cmd)
	}
	return slices.DeleteFunc(groups, func(g commandGroup) bool { return len(g.Commands) == 0 })
}

// documented returns the visible subcommands of cmd.
func documented(cmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, sub := range cmd.Commands() {
		if sub.Hidden || sub.Name() == "help" || sub.Name() == "__complete" {
			continue
		}
		out = append(out, sub)
	}
	return out
}

// generateCLIDocs writes index.md plus one page per top-level command.
// Nested commands are documented on their parent's page.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	if err := writePage(filepath.Join(outDir, "index.md"), cliIndex(root)); err != nil {
		return err
	}

	for _, cmd := range documented(root) {
		if err := writePage(filepath.Join(outDir, cmd.Name()+".md"), commandPage(cmd)); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
	}
	return nil
}

func writePage(path string, w *MarkdownWriter) error {
	if err := os.WriteFile(path, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated %s", filepath.Base(path))
	return nil
}

func cliIndex(root *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for secom")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/secom/cmd/secom@latest")

	w.Header(2, "Quick Start")
	w.CodeBlock("bash", `# Preview the merged table from the files in ./data
secom combine --data-dir data --show

# Fail instead of dropping rows when the sources disagree
secom combine --data-dir data --strict

# Write every table to SQLite
secom export --data-dir data --sink sqlite --path secom.db --all`)

	for _, g := range groupCommands(root) {
		w.Header(2, g.Title)
		if g.Intro != "" {
			w.Paragraph(g.Intro)
		}
		rows := make([][]string, len(g.Commands))
		for i, cmd := range g.Commands {
			rows[i] = []string{
				fmt.Sprintf("[%s](%s.md)", InlineCode(cmd.Name()), cmd.Name()),
				cleanDescription(cmd.Short),
			}
		}
		w.Table([]string{"Command", "Description"}, rows)
	}

	w.Header(2, "Global Options")
	w.Table(flagHeaders, flagRows(root.PersistentFlags()))

	w.Paragraph("Flags override " + InlineCode(config.EnvPrefix) + " environment variables, which override " +
		InlineCode(config.ConfigFileName) + ". See [configuration](../configuration.md) for every key. " +
		"Errors are printed to stderr and exit with status 1.")
	return w
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.CommandPath(), cleanDescription(cmd.Short))
	w.GeneratedMarker()

	w.Header(1, cmd.CommandPath())
	writeCommand(w, cmd, 2)

	for _, sub := range documented(cmd) {
		w.Header(2, sub.CommandPath())
		writeCommand(w, sub, 3)
	}
	return w
}

// writeCommand writes the body of one command with sections at level.
func writeCommand(w *MarkdownWriter, cmd *cobra.Command, level int) {
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cleanDescription(cmd.Short))
	}
	w.CodeBlock("bash", cmd.UseLine())

	if len(cmd.ValidArgs) > 0 {
		w.Header(level, "Arguments")
		args := make([]string, len(cmd.ValidArgs))
		for i, a := range cmd.ValidArgs {
			args[i] = InlineCode(a)
		}
		w.BulletList(args)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(level, "Options")
		w.Table(flagHeaders, flagRows(cmd.LocalNonPersistentFlags()))
	}

	if cmd.Name() == "export" {
		w.Header(level, "Sinks")
		var rows [][]string
		for _, info := range adapter.Registered() {
			rows = append(rows, []string{InlineCode(info.Name), info.Description})
		}
		w.Table([]string{"Sink", "Description"}, rows)
	}

	if cmd.Example != "" {
		w.Header(level, "Examples")
		w.CodeBlock("bash", exampleLines(cmd.Example))
	}
}

var flagHeaders = []string{"Flag", "Default", "Config key", "Description"}

// flagRows lists the visible flags of fs. Flags backed by a config key name
// it, so each flag can be traced to its environment variable.
func flagRows(fs *pflag.FlagSet) [][]string {
	var rows [][]string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}

		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}

		def := f.DefValue
		if def != "" && f.Value.Type() != "bool" {
			def = InlineCode(def)
		}

		key := ""
		if k := config.FlagKey(f.Name); keyDescriptions[k] != "" {
			key = InlineCode(k)
		}

		rows = append(rows, []string{name, def, key, cleanDescription(f.Usage)})
	})
	return rows
}

// exampleLines strips the indentation cobra examples carry.
func exampleLines(example string) string {
	lines := strings.Split(strings.TrimSpace(example), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}
