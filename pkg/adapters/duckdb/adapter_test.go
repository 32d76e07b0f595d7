package duckdb

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/secom/internal/testutil"
	"github.com/leapstack-labs/secom/pkg/adapter"
	"github.com/leapstack-labs/secom/pkg/table"
)

func mergedSample(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.NewFloatColumn("s_data_0", []float64{3030.93, math.NaN(), 2932.61}),
		table.NewIntColumn("s_label_target", []int64{1, 1, 0}),
		table.NewStringColumn("json_vendor", []string{"Acme Corp", "Globex", "Acme Corp"}),
		table.NewTimeColumn("s_label_datetime", []time.Time{
			time.Date(2008, 7, 19, 11, 55, 0, 0, time.UTC),
			time.Date(2008, 7, 19, 12, 32, 0, 0, time.UTC),
			time.Date(2008, 8, 19, 13, 17, 0, 0, time.UTC),
		}),
	)
	require.NoError(t, err)
	return tbl
}

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name      string
		setupPath func(t *testing.T) string
		verify    func(t *testing.T, path string)
	}{
		{
			name:      "in-memory",
			setupPath: func(_ *testing.T) string { return "" },
		},
		{
			name: "file-based",
			setupPath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "secom.duckdb")
			},
			verify: func(t *testing.T, path string) {
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "database file was not created")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(testutil.NewTestLogger(t))

			dbPath := tt.setupPath(t)
			require.NoError(t, adp.Connect(ctx, adapter.Config{Type: "duckdb", Path: dbPath}))
			defer func() { _ = adp.Close() }()

			if tt.verify != nil {
				tt.verify(t, dbPath)
			}
		})
	}
}

func TestAdapter_Settings(t *testing.T) {
	ctx := context.Background()

	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Options: map[string]string{"threads": "2"}}))
	defer func() { _ = adp.Close() }()

	got, err := adp.Query(ctx, "SELECT current_setting('threads') AS threads")
	require.NoError(t, err)
	col, _ := got.Column("threads")
	assert.Equal(t, "2", table.FormatValue(col.Value(0)))

	bad := New(nil)
	err = bad.Connect(ctx, adapter.Config{Options: map[string]string{"threads; DROP": "1"}})
	require.Error(t, err)
	assert.False(t, bad.IsConnected())
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	assert.Error(t, adp.WriteTable(ctx, "merged", mergedSample(t)))
	_, err := adp.Query(ctx, "SELECT 1")
	assert.Error(t, err)
	assert.NoError(t, adp.Close())
}

func TestAdapter_WriteAndQuery(t *testing.T) {
	ctx := context.Background()
	adp := New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(ctx, adapter.Config{}))
	defer func() { _ = adp.Close() }()

	require.NoError(t, adp.WriteTable(ctx, "merged", mergedSample(t)))
	// Writing again replaces the table.
	require.NoError(t, adp.WriteTable(ctx, "merged", mergedSample(t)))

	got, err := adp.Query(ctx, `
		SELECT s_label_target, count(*) AS n, count(s_data_0) AS readings
		FROM merged
		GROUP BY s_label_target
		ORDER BY s_label_target`)
	require.NoError(t, err)

	require.Equal(t, 2, got.NumRows())
	assert.Equal(t, []any{int64(0), int64(1), int64(1)}, got.RowValues(0))
	assert.Equal(t, []any{int64(1), int64(2), int64(1)}, got.RowValues(1), "NaN is stored as NULL")

	stamps, err := adp.Query(ctx, `SELECT s_label_datetime FROM merged WHERE json_vendor = 'Globex'`)
	require.NoError(t, err)
	col, _ := stamps.Column("s_label_datetime")
	assert.Equal(t, table.Time, col.Kind())
	assert.True(t, col.Value(0).(time.Time).Equal(time.Date(2008, 7, 19, 12, 32, 0, 0, time.UTC)))
}

func TestAdapter_Registered(t *testing.T) {
	sink, err := adapter.NewAdapter(adapter.Config{Type: "duckdb"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Adapter{}, sink)
}
