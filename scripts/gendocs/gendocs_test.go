package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/secom/internal/cli"
)

func TestMarkdownWriter(t *testing.T) {
	w := NewMarkdownWriter()
	w.Header(2, "Options")
	w.Table([]string{"Option", "Description"}, [][]string{{InlineCode("--output"), "auto|text"}})
	w.CodeBlock("bash", "secom combine\n")

	assert.Equal(t, "## Options\n\n"+
		"| Option | Description |\n| --- | --- |\n| `--output` | auto\\|text |\n\n"+
		"```bash\nsecom combine\n```\n\n", string(w.Bytes()))
}

func TestExampleLines(t *testing.T) {
	assert.Equal(t, "secom combine\nsecom export --all", exampleLines("  secom combine\n  secom export --all\n"))
}

func TestGroupCommands(t *testing.T) {
	groups := groupCommands(cli.NewRootCmd())

	titles := make([]string, len(groups))
	for i, g := range groups {
		titles[i] = g.Title
	}
	assert.Equal(t, []string{"Sources", "Pipeline", "Export", "Other"}, titles)

	var sources []string
	for _, cmd := range groups[0].Commands {
		sources = append(sources, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"features", "labels", "vendor"}, sources)
}

func TestFlagRows(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("features-file", "secom.data", "feature matrix file name")
	fs.BoolP("verbose", "v", false, "verbose output")
	fs.Int("columns", 8, "columns to show")

	rows := flagRows(fs)
	require.Len(t, rows, 3)
	// VisitAll is sorted by name.
	assert.Equal(t, []string{"`--columns`", "`8`", "", "Columns to show"}, rows[0])
	assert.Equal(t, []string{"`--features-file`", "`secom.data`", "`files.features`", "Feature matrix file name"}, rows[1])
	assert.Equal(t, []string{"`-v`, `--verbose`", "false", "`verbose`", "Verbose output"}, rows[2])
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "SECOM_DATA_DIR", envName("data_dir"))
	assert.Equal(t, "SECOM_EXPORT__TYPE", envName("export.type"))
}

func TestConfigKeys_Documented(t *testing.T) {
	for _, row := range configKeys() {
		assert.NotEmpty(t, row[3], "key %s has no description", row[0])
	}
}

func TestGenerateDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(filepath.Join(dir, "cli")))
	require.NoError(t, generateConfigDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "cli", "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "[`combine`](combine.md)")
	assert.Contains(t, string(index), "## Sources")
	assert.Contains(t, string(index), "`--data-dir`")

	export, err := os.ReadFile(filepath.Join(dir, "cli", "export.md"))
	require.NoError(t, err)
	assert.Contains(t, string(export), "# secom export")
	assert.Contains(t, string(export), "| `--sink` | `duckdb` | `export.type` |")
	assert.Contains(t, string(export), "## secom export sinks")
	assert.Contains(t, string(export), "| `xlsx` |")

	schema, err := os.ReadFile(filepath.Join(dir, "cli", "schema.md"))
	require.NoError(t, err)
	assert.Contains(t, string(schema), "- `merged`")

	_, err = os.Stat(filepath.Join(dir, "cli", "features.md"))
	assert.NoError(t, err)

	cfg, err := os.ReadFile(filepath.Join(dir, "configuration.md"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(cfg), "`SECOM_JOIN__STRICT`"))
	assert.Contains(t, string(cfg), "`xlsx`")
}
