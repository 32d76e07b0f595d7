package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	sharedcfg "github.com/leapstack-labs/secom/internal/config"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configKey is used to store config in context.
type configKey struct{}

// flagKeys maps flag names onto config keys where the two differ beyond
// kebab-case versus snake_case.
var flagKeys = map[string]string{
	"features-file": "files.features",
	"labels-file":   "files.labels",
	"vendor-file":   "files.vendor",
	"index-field":   "vendor.index",
	"date-ordinal":  "vendor.date_ordinal",
	"join-key":      "join.key",
	"strict":        "join.strict",
	"sink":          "export.type",
	"path":          "export.path",
	"table":         "export.table",
}

// skipFlags never reach the config.
var skipFlags = map[string]bool{
	"config":  true,
	"help":    true,
	"columns": true,
	"input":   true,
	"all":     true,
	"show":    true,
}

// findConfigFile finds the config file to use.
// Priority: explicit path > secom.yaml > secom.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Loader layers the configuration sources.
type Loader struct {
	k        *koanf.Koanf
	fileUsed string
}

// NewLoader creates a loader.
func NewLoader() *Loader {
	return &Loader{k: koanf.New(".")}
}

// FileUsed returns the config file read by the last Load, if any.
func (l *Loader) FileUsed() string {
	return l.fileUsed
}

// Load reads configuration from defaults, file, environment variables and
// flags. Precedence (highest to lowest): flags > env vars > config file >
// defaults. Only flags the user set take part.
func (l *Loader) Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	l.k = koanf.New(".")

	// 1. Defaults
	defaults := sharedcfg.Defaults()
	defaults["verbose"] = false
	defaults["output"] = DefaultOutput
	defaults["preview"] = DefaultPreview
	if err := l.k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	l.fileUsed = findConfigFile(cfgFile)
	if l.fileUsed != "" {
		if err := l.k.Load(file.Provider(l.fileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", l.fileUsed, err)
		}
	}

	// 3. Environment: SECOM_DATA_DIR -> data_dir, SECOM_EXPORT__TYPE -> export.type
	if err := l.k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := l.k.Load(posflag.ProviderWithFlag(flags, ".", l.k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || skipFlags[f.Name] {
				return "", nil
			}
			return FlagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// A relative data_dir is resolved against the config file directory.
	if l.fileUsed != "" && !l.setByFlagOrEnv(flags, "data-dir", "DATA_DIR") {
		cfg.DataDir = resolvePathRelativeTo(cfg.DataDir, filepath.Dir(l.fileUsed))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FlagKey returns the config key a flag is stored under.
func FlagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

func (l *Loader) setByFlagOrEnv(flags *pflag.FlagSet, flag, envSuffix string) bool {
	if flags != nil && flags.Changed(flag) {
		return true
	}
	_, ok := os.LookupEnv(EnvPrefix + envSuffix)
	return ok
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// WithLogger stores the logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// WithConfig stores the loaded config in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from the command context, falling back
// to the defaults when none was loaded.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return Default()
}

// Default returns the configuration used when no sources are loaded.
func Default() *Config {
	cfg := &Config{
		OutputFormat: DefaultOutput,
		Preview:      DefaultPreview,
	}
	cfg.FeatureEngineer = true
	sharedcfg.ApplyDefaults(&cfg.Settings)
	cfg.Export.Path = sharedcfg.DefaultExportPath
	return cfg
}
