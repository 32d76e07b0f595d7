package config

import "github.com/leapstack-labs/secom/pkg/secom"

// Default configuration values.
const (
	DefaultDataDir    = "."
	DefaultDateOrder  = string(secom.DayFirst)
	DefaultExportType = "duckdb"
	DefaultExportPath = "secom.duckdb"
	DefaultTableName  = "secom"
)

// Defaults returns the default settings as a flat key map, the form the
// config layers are merged in.
func Defaults() map[string]any {
	return map[string]any{
		"data_dir":            DefaultDataDir,
		"files.features":      secom.DefaultFeaturesFile,
		"files.labels":        secom.DefaultLabelsFile,
		"files.vendor":        secom.DefaultVendorFile,
		"feature_engineer":    true,
		"human_labels":        false,
		"date_order":          DefaultDateOrder,
		"vendor.index":        secom.DefaultIndexField,
		"vendor.date_ordinal": false,
		"join.key":            "",
		"join.strict":         false,
		"parallel":            false,
		"export.type":         DefaultExportType,
		"export.path":         DefaultExportPath,
		"export.table":        DefaultTableName,
	}
}

// ApplyDefaults fills zero values of s that have a non-zero default.
// Booleans are left alone since false is meaningful.
func ApplyDefaults(s *Settings) {
	if s == nil {
		return
	}
	if s.DataDir == "" {
		s.DataDir = DefaultDataDir
	}
	if s.Files.Features == "" {
		s.Files.Features = secom.DefaultFeaturesFile
	}
	if s.Files.Labels == "" {
		s.Files.Labels = secom.DefaultLabelsFile
	}
	if s.Files.Vendor == "" {
		s.Files.Vendor = secom.DefaultVendorFile
	}
	if s.DateOrder == "" {
		s.DateOrder = DefaultDateOrder
	}
	if s.Vendor.IndexField == "" {
		s.Vendor.IndexField = secom.DefaultIndexField
	}
	if s.Export.Type == "" {
		s.Export.Type = DefaultExportType
	}
	if s.Export.Table == "" {
		s.Export.Table = DefaultTableName
	}
}
