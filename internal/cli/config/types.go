// Package config loads the CLI configuration.
//
// The CLI configuration embeds the shared settings from internal/config
// and adds the display options that only matter on the command line.
package config

import (
	sharedcfg "github.com/leapstack-labs/secom/internal/config"
)

// Settings is an alias for the shared pipeline and export settings.
type Settings = sharedcfg.Settings

// Config holds all CLI configuration options.
type Config struct {
	Settings `koanf:",squash"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output" validate:"oneof=auto text markdown json yaml"`
	Preview      int    `koanf:"preview" validate:"gte=0"`
}

// Default configuration values.
const (
	ConfigFileName    = "secom.yaml"
	ConfigFileNameAlt = "secom.yml"
	EnvPrefix         = "SECOM_"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPreview    = 10
)

// Validate checks every setting.
func (c *Config) Validate() error {
	return sharedcfg.Validate(c)
}
