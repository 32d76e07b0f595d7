package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/secom/internal/testutil"
	"github.com/leapstack-labs/secom/pkg/secom"
)

const fixtures = "../secom/testdata"

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		parallel bool
	}{
		{name: "sequential"},
		{name: "parallel", parallel: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(context.Background(), Config{
				DataDir:         fixtures,
				FeatureEngineer: true,
				Parallel:        tt.parallel,
				Logger:          testutil.NewTestLogger(t),
			})
			require.NoError(t, err)

			_, err = uuid.Parse(res.RunID)
			assert.NoError(t, err)
			assert.Equal(t, 4, res.Stats.FeatureRows)
			assert.Equal(t, 4, res.Stats.LabelRows)
			assert.Equal(t, 4, res.Stats.VendorRows)
			assert.Equal(t, 4, res.Stats.MergedRows)
			assert.Equal(t, res.Features.NumCols()+res.Labels.NumCols()+res.Vendor.NumCols(), res.Stats.MergedCols)
			assert.True(t, res.Merged.HasColumn("s_label_target"))
		})
	}
}

func TestRun_SameResultEitherWay(t *testing.T) {
	cfg := Config{DataDir: fixtures, FeatureEngineer: true}
	seq, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	cfg.Parallel = true
	par, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, seq.Merged.Equal(par.Merged))
	assert.NotEqual(t, seq.RunID, par.RunID)
}

func TestRun_MissingFile(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		_, err := Run(context.Background(), Config{
			DataDir:    fixtures,
			VendorFile: "missing.json",
			Parallel:   parallel,
		})
		require.Error(t, err)

		var notFound *secom.FileNotFoundError
		assert.True(t, errors.As(err, &notFound))
		assert.Contains(t, err.Error(), "failed to load vendor")
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Config{DataDir: fixtures})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Strict(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{secom.DefaultLabelsFile, secom.DefaultVendorFile} {
		data, err := os.ReadFile(filepath.Join(fixtures, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, secom.DefaultFeaturesFile), []byte("1 2\n3 4\n"), 0o600))

	res, err := Run(context.Background(), Config{DataDir: dir, FeatureEngineer: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.MergedRows)

	_, err = Run(context.Background(), Config{DataDir: dir, FeatureEngineer: true, Strict: true})
	var mismatch *secom.RowCountMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 2, mismatch.Rows)
}

func TestLoad(t *testing.T) {
	cfg := Config{DataDir: fixtures}

	labels, err := Load(cfg, SourceLabels)
	require.NoError(t, err)
	assert.True(t, labels.HasColumn("s_label_datetime"), "feature engineering is off in a zero Config")

	_, err = Load(cfg, Source("bogus"))
	assert.Error(t, err)
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("vendor")
	require.NoError(t, err)
	assert.Equal(t, SourceVendor, src)

	_, err = ParseSource("json")
	assert.Error(t, err)
}

func TestStats_Dropped(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  int
	}{
		{name: "aligned", stats: Stats{FeatureRows: 4, LabelRows: 4, VendorRows: 4, MergedRows: 4}, want: 0},
		{name: "short vendor", stats: Stats{FeatureRows: 4, LabelRows: 4, VendorRows: 3, MergedRows: 3}, want: 1},
		{name: "short labels", stats: Stats{FeatureRows: 5, LabelRows: 2, VendorRows: 5, MergedRows: 2}, want: 3},
		{name: "empty", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.Dropped())
		})
	}
}
