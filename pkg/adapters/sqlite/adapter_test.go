package sqlite

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/secom/internal/testutil"
	"github.com/leapstack-labs/secom/pkg/adapter"
	"github.com/leapstack-labs/secom/pkg/table"
)

func sample(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.NewFloatColumn("s_data_0", []float64{3030.93, math.NaN()}),
		table.NewIntColumn("s_label_target", []int64{1, 0}),
		table.NewStringColumn("json_vendor", []string{"Acme Corp", "Globex"}),
	)
	require.NoError(t, err)
	return tbl
}

func TestAdapter_ConnectMigrates(t *testing.T) {
	ctx := context.Background()
	adp := New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(ctx, adapter.Config{Type: "sqlite"}))
	defer func() { _ = adp.Close() }()

	version, err := MigrationVersion(ctx, adp.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	exports, err := adp.Exports(ctx)
	require.NoError(t, err)
	assert.Empty(t, exports)
}

func TestAdapter_WriteTableRecordsExport(t *testing.T) {
	ctx := adapter.WithRunID(context.Background(), "run-1")
	path := filepath.Join(t.TempDir(), "secom.db")

	adp := New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: path}))
	require.NoError(t, adp.WriteTable(ctx, "merged", sample(t)))
	require.NoError(t, adp.WriteTable(context.Background(), "merged", sample(t)))
	require.NoError(t, adp.Close())

	// Reopening runs the migrations again without touching existing data.
	adp = New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: path}))
	defer func() { _ = adp.Close() }()

	exports, err := adp.Exports(ctx)
	require.NoError(t, err)
	require.Len(t, exports, 2)
	assert.Equal(t, "run-1", exports[0].RunID)
	assert.Empty(t, exports[1].RunID)
	assert.Equal(t, "merged", exports[0].Table)
	assert.Equal(t, 2, exports[0].Rows)
	assert.Equal(t, 3, exports[0].Columns)

	got, err := adp.Query(ctx, `SELECT json_vendor, s_data_0 FROM merged ORDER BY json_vendor`)
	require.NoError(t, err)
	require.Equal(t, 2, got.NumRows())
	assert.Equal(t, []any{"Acme Corp", 3030.93}, got.RowValues(0))
	assert.Equal(t, []any{"Globex", nil}, got.RowValues(1))
}

func TestAdapter_NotConnected(t *testing.T) {
	adp := New(nil)
	_, err := adp.Exports(context.Background())
	assert.Error(t, err)
	assert.Error(t, adp.WriteTable(context.Background(), "merged", sample(t)))
}
