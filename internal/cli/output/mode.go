// Package output renders command results for terminals, agents and
// scripts.
package output

import "fmt"

// OutputMode selects how results are rendered.
type OutputMode string //nolint:revive // stutter

// Output modes.
const (
	ModeAuto     OutputMode = "auto"     // text on a TTY, markdown otherwise
	ModeText     OutputMode = "text"     // styled terminal output
	ModeMarkdown OutputMode = "markdown" // plain markdown, agent-friendly
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
)

// Modes lists the accepted values of --output.
var Modes = []OutputMode{ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeYAML}

// ParseMode validates a mode name. Empty means auto.
func ParseMode(s string) (OutputMode, error) {
	if s == "" {
		return ModeAuto, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown output mode %q (expected auto, text, markdown, json or yaml)", s)
}

// Structured reports whether the mode emits machine-readable data.
func (m OutputMode) Structured() bool {
	return m == ModeJSON || m == ModeYAML
}
