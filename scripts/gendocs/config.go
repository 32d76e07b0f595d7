package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/secom/internal/cli/config"
	sharedcfg "github.com/leapstack-labs/secom/internal/config"
	"github.com/leapstack-labs/secom/pkg/adapter"
)

// keyDescriptions documents each configuration key.
var keyDescriptions = map[string]string{
	"data_dir":            "Directory holding the three source files; relative paths resolve against the config file",
	"files.features":      "Feature matrix file name inside data_dir",
	"files.labels":        "Label file name inside data_dir",
	"files.vendor":        "Vendor JSON file name inside data_dir",
	"feature_engineer":    "Derive date features for labels and one-hot encode vendor string fields",
	"human_labels":        "Recode targets as Pass/Fail instead of 1/0",
	"date_order":          "Day/month order of label timestamps: dmy or mdy",
	"vendor.index":        "Vendor record field that carries the row index",
	"vendor.date_ordinal": "Keep json_datetime_ordinal before the vendor datetime is dropped",
	"join.key":            "Join on this column instead of the row position",
	"join.strict":         "Fail when the join drops rows",
	"parallel":            "Load the three sources concurrently",
	"export.type":         "Sink written by the export command",
	"export.path":         "Database file, workbook or directory for the sink",
	"export.table":        "Name of the merged table",
	"export.options":      "Sink-specific settings, e.g. DuckDB threads",
	"verbose":             "Debug logging on stderr",
	"output":              "Output format: auto, text, markdown, json or yaml",
	"preview":             "Rows shown by preview commands; 0 shows all",
}

// envName returns the environment variable for a config key.
func envName(key string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

// configKeys returns every documented key with its default, sorted.
func configKeys() [][]string {
	defaults := sharedcfg.Defaults()
	defaults["export.options"] = ""
	defaults["verbose"] = false
	defaults["output"] = config.DefaultOutput
	defaults["preview"] = config.DefaultPreview

	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, len(keys))
	for i, k := range keys {
		def := fmt.Sprint(defaults[k])
		if def != "" {
			def = InlineCode(def)
		}
		rows[i] = []string{InlineCode(k), InlineCode(envName(k)), def, keyDescriptions[k]}
	}
	return rows
}

// generateConfigDocs writes configuration.md.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "Configuration keys for secom")
	w.GeneratedMarker()
	w.Header(1, "Configuration")
	w.Paragraph("Settings are read from " + InlineCode(config.ConfigFileName) +
		" in the working directory (or the file passed with " + InlineCode("--config") +
		"), then from the environment, then from command-line flags.")

	w.Header(2, "Keys")
	w.Table([]string{"Key", "Environment", "Default", "Description"}, configKeys())

	w.Header(2, "Sinks")
	var sinks [][]string
	for _, info := range adapter.Registered() {
		sinks = append(sinks, []string{InlineCode(info.Name), info.Description})
	}
	w.Table([]string{"Type", "Description"}, sinks)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `data_dir: data
human_labels: true
join:
  strict: true
export:
  type: sqlite
  path: secom.db
  table: secom`)

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
