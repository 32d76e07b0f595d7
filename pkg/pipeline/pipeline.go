// Package pipeline runs the three SECOM loaders and the combiner as one
// unit of work.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/secom/pkg/secom"
	"github.com/leapstack-labs/secom/pkg/table"
)

// Config holds pipeline configuration.
type Config struct {
	// DataDir is the directory holding the three source files
	DataDir string
	// FeaturesFile, LabelsFile and VendorFile override the default file names
	FeaturesFile string
	LabelsFile   string
	VendorFile   string
	// FeatureEngineer enables derived features in the label and vendor loaders
	FeatureEngineer bool
	// HumanLabels recodes targets as Pass/Fail
	HumanLabels bool
	// DateOrder is the day/month order of label timestamps ("dmy" or "mdy")
	DateOrder secom.DateOrder
	// VendorIndexField names the vendor record field carrying the row index
	VendorIndexField string
	// KeepDateOrdinal keeps json_datetime_ordinal in the vendor table
	KeepDateOrdinal bool
	// JoinKey joins on a named column instead of the row index when set
	JoinKey string
	// Strict fails the run when the join drops rows
	Strict bool
	// Parallel loads the three sources concurrently
	Parallel bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Stats summarizes a run.
type Stats struct {
	FeatureRows int           `json:"feature_rows" yaml:"feature_rows"`
	LabelRows   int           `json:"label_rows" yaml:"label_rows"`
	VendorRows  int           `json:"vendor_rows" yaml:"vendor_rows"`
	MergedRows  int           `json:"merged_rows" yaml:"merged_rows"`
	MergedCols  int           `json:"merged_columns" yaml:"merged_columns"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// Dropped returns how many rows of the largest source did not survive the
// join.
func (s Stats) Dropped() int {
	return max(s.FeatureRows, s.LabelRows, s.VendorRows, s.MergedRows) - s.MergedRows
}

// Result is the output of a run.
type Result struct {
	RunID    string
	Features *table.Table
	Labels   *table.Table
	Vendor   *table.Table
	Merged   *table.Table
	Stats    Stats
}

// Source identifies one of the three inputs.
type Source string

// Sources of the SECOM dataset.
const (
	SourceFeatures Source = "features"
	SourceLabels   Source = "labels"
	SourceVendor   Source = "vendor"
)

// Sources lists the inputs in combine order.
var Sources = []Source{SourceFeatures, SourceLabels, SourceVendor}

// ParseSource validates a source name.
func ParseSource(name string) (Source, error) {
	for _, s := range Sources {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown source %q (expected features, labels or vendor)", name)
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Load reads a single source.
func Load(cfg Config, src Source) (*table.Table, error) {
	logger := cfg.logger()
	common := []secom.Option{
		secom.WithLogger(logger),
		secom.WithFeatureEngineering(cfg.FeatureEngineer),
	}

	switch src {
	case SourceFeatures:
		return secom.LoadFeatures(cfg.DataDir, append(common, secom.WithFilename(cfg.FeaturesFile))...)
	case SourceLabels:
		opts := append(common,
			secom.WithFilename(cfg.LabelsFile),
			secom.WithHumanLabels(cfg.HumanLabels))
		if cfg.DateOrder != "" {
			opts = append(opts, secom.WithDateOrder(cfg.DateOrder))
		}
		return secom.LoadLabels(cfg.DataDir, opts...)
	case SourceVendor:
		opts := append(common,
			secom.WithFilename(cfg.VendorFile),
			secom.WithDateOrdinal(cfg.KeepDateOrdinal))
		if cfg.VendorIndexField != "" {
			opts = append(opts, secom.WithIndexField(cfg.VendorIndexField))
		}
		return secom.LoadVendor(cfg.DataDir, opts...)
	default:
		return nil, fmt.Errorf("unknown source %q", src)
	}
}

// Run loads all three sources and combines them.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	runID := uuid.New().String()
	logger := cfg.logger().With("run_id", runID)
	cfg.Logger = logger
	start := time.Now()

	logger.Info("starting pipeline", "data_dir", cfg.DataDir, "parallel", cfg.Parallel)

	tables := make([]*table.Table, len(Sources))
	if cfg.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, src := range Sources {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				t, err := Load(cfg, src)
				if err != nil {
					return fmt.Errorf("failed to load %s: %w", src, err)
				}
				tables[i] = t
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, src := range Sources {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			t, err := Load(cfg, src)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", src, err)
			}
			tables[i] = t
		}
	}

	opts := []secom.Option{secom.WithLogger(logger), secom.WithStrict(cfg.Strict)}
	if cfg.JoinKey != "" {
		opts = append(opts, secom.WithKey(cfg.JoinKey))
	}
	merged, err := secom.Combine(tables[0], tables[1], tables[2], opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to combine sources: %w", err)
	}

	res := &Result{
		RunID:    runID,
		Features: tables[0],
		Labels:   tables[1],
		Vendor:   tables[2],
		Merged:   merged,
		Stats: Stats{
			FeatureRows: tables[0].NumRows(),
			LabelRows:   tables[1].NumRows(),
			VendorRows:  tables[2].NumRows(),
			MergedRows:  merged.NumRows(),
			MergedCols:  merged.NumCols(),
			Duration:    time.Since(start),
		},
	}

	logger.Info("pipeline complete",
		"rows", res.Stats.MergedRows,
		"columns", res.Stats.MergedCols,
		"duration", res.Stats.Duration.Round(time.Millisecond))
	return res, nil
}
