// Package config holds the settings shared by the pipeline and the CLI,
// their defaults and their validation.
package config

import (
	"log/slog"

	"github.com/leapstack-labs/secom/pkg/adapter"
	"github.com/leapstack-labs/secom/pkg/pipeline"
	"github.com/leapstack-labs/secom/pkg/secom"
)

// Settings configures a pipeline run and its export.
type Settings struct {
	DataDir         string         `koanf:"data_dir" validate:"required"`
	Files           Files          `koanf:"files"`
	FeatureEngineer bool           `koanf:"feature_engineer"`
	HumanLabels     bool           `koanf:"human_labels"`
	DateOrder       string         `koanf:"date_order" validate:"oneof=dmy mdy"`
	Vendor          VendorSettings `koanf:"vendor"`
	Join            JoinSettings   `koanf:"join"`
	Parallel        bool           `koanf:"parallel"`
	Export          ExportSettings `koanf:"export"`
}

// Files names the three sources inside DataDir.
type Files struct {
	Features string `koanf:"features" validate:"required,relpath"`
	Labels   string `koanf:"labels" validate:"required,relpath"`
	Vendor   string `koanf:"vendor" validate:"required,relpath"`
}

// VendorSettings configures the vendor loader.
type VendorSettings struct {
	IndexField  string `koanf:"index"`
	DateOrdinal bool   `koanf:"date_ordinal"`
}

// JoinSettings configures Combine.
type JoinSettings struct {
	Key    string `koanf:"key"`
	Strict bool   `koanf:"strict"`
}

// ExportSettings selects the export sink.
type ExportSettings struct {
	Type    string            `koanf:"type" validate:"required,sink"`
	Path    string            `koanf:"path"`
	Table   string            `koanf:"table" validate:"required,identifier"`
	Options map[string]string `koanf:"options"`
}

// Pipeline converts the settings into a pipeline configuration.
func (s *Settings) Pipeline(logger *slog.Logger) pipeline.Config {
	return pipeline.Config{
		DataDir:          s.DataDir,
		FeaturesFile:     s.Files.Features,
		LabelsFile:       s.Files.Labels,
		VendorFile:       s.Files.Vendor,
		FeatureEngineer:  s.FeatureEngineer,
		HumanLabels:      s.HumanLabels,
		DateOrder:        secom.DateOrder(s.DateOrder),
		VendorIndexField: s.Vendor.IndexField,
		KeepDateOrdinal:  s.Vendor.DateOrdinal,
		JoinKey:          s.Join.Key,
		Strict:           s.Join.Strict,
		Parallel:         s.Parallel,
		Logger:           logger,
	}
}

// Sink converts the export settings into a sink configuration.
func (e ExportSettings) Sink() adapter.Config {
	return adapter.Config{Type: e.Type, Path: e.Path, Options: e.Options}
}
