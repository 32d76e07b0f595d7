// Package main provides tests for the secom CLI.
package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/leapstack-labs/secom/internal/cli"
	"github.com/leapstack-labs/secom/pkg/secom"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Join(wd, "..", "..", "pkg", "secom", "testdata")
}

// execute runs the root command from an empty working directory so no
// stray secom.yaml is picked up.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := cli.NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "secom v")
}

func TestHelpCommand(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, want := range []string{"features", "labels", "vendor", "combine", "schema", "export", "query"} {
		assert.Contains(t, out, want)
	}
}

func TestSourceCommands(t *testing.T) {
	td := testdataDir(t)
	tests := []struct {
		source string
		args   []string
		want   []string
	}{
		{source: "features", want: []string{"s_data_0", "3030.93", "(4 rows)"}},
		{source: "labels", args: []string{"--preview", "2"}, want: []string{"s_label_target", "s_label_month__7", "(4 rows, 2 shown"}},
		{source: "vendor", want: []string{"json_lot", "json_vendor_acme_corp"}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			args := append([]string{tt.source, "--data-dir", td, "-o", "markdown", "--columns", "0"}, tt.args...)
			out, _, err := execute(t, args...)
			require.NoError(t, err)
			assert.Contains(t, out, "## "+tt.source)
			lower := strings.ToLower(out)
			for _, want := range tt.want {
				assert.Contains(t, lower, want)
			}
		})
	}
}

func TestCombineCommandJSON(t *testing.T) {
	out, _, err := execute(t, "combine", "--data-dir", testdataDir(t), "-o", "json", "--parallel")
	require.NoError(t, err)

	var summary struct {
		RunID string `json:"run_id"`
		Stats struct {
			MergedRows int `json:"merged_rows"`
			MergedCols int `json:"merged_columns"`
		} `json:"stats"`
		Dropped int `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 4, summary.Stats.MergedRows)
	assert.Equal(t, 13, summary.Stats.MergedCols)
	assert.Zero(t, summary.Dropped)
}

func TestCombineCommand_MissingData(t *testing.T) {
	_, _, err := execute(t, "combine", "--data-dir", t.TempDir())
	require.Error(t, err)

	var notFound *secom.FileNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCombineCommand_InvalidOutput(t *testing.T) {
	_, _, err := execute(t, "combine", "--data-dir", testdataDir(t), "-o", "html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output")
}

func TestSchemaCommand(t *testing.T) {
	td := testdataDir(t)
	out, _, err := execute(t, "schema", "labels", "--data-dir", td, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: labels")
	assert.Contains(t, out, "name: s_label_datetime_ordinal_eng")

	_, _, err = execute(t, "schema", "bogus", "--data-dir", td)
	assert.Error(t, err)
}

func TestQueryCommand(t *testing.T) {
	out, _, err := execute(t, "query", "--data-dir", testdataDir(t), "-o", "json",
		"SELECT count(*) AS n, sum(s_label_target) AS failures FROM secom")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.EqualValues(t, 4, rows[0]["n"])
}

func TestExportCommand_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "secom.db")
	out, _, err := execute(t, "export", "--data-dir", testdataDir(t),
		"--sink", "sqlite", "--path", dbPath, "--all", "-o", "json")
	require.NoError(t, err)

	var report struct {
		Sink   string   `json:"sink"`
		Tables []string `json:"tables"`
		Rows   int      `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "sqlite", report.Sink)
	assert.Equal(t, []string{"features", "labels", "vendor", "secom"}, report.Tables)
	assert.Equal(t, 4, report.Rows)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM "secom"`).Scan(&n))
	assert.Equal(t, 4, n)
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM exports`).Scan(&n))
	assert.Equal(t, 4, n)
}

func TestExportCommand_UnknownSink(t *testing.T) {
	_, _, err := execute(t, "export", "--data-dir", testdataDir(t), "--sink", "parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink")
}

func TestExportSinks(t *testing.T) {
	out, _, err := execute(t, "export", "sinks", "-o", "markdown")
	require.NoError(t, err)
	for _, name := range []string{"csv", "duckdb", "sqlite", "xlsx"} {
		assert.Contains(t, out, "**"+name+":**")
	}
}
