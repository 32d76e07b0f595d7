package csv

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/secom/pkg/adapter"
	"github.com/leapstack-labs/secom/pkg/table"
)

func TestAdapter_WriteTable(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "out")

	tbl, err := table.New(
		table.NewFloatColumn("s_data_0", []float64{3030.93, math.NaN()}),
		table.NewColumn("json_vendor", table.String, []any{"Acme, Corp", nil}),
	)
	require.NoError(t, err)

	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Type: "csv", Path: dir}))
	require.NoError(t, adp.WriteTable(ctx, "merged", tbl))
	require.NoError(t, adp.Close())

	data, err := os.ReadFile(filepath.Join(dir, "merged.csv"))
	require.NoError(t, err)
	assert.Equal(t, "s_data_0,json_vendor\n3030.93,\"Acme, Corp\"\nNaN,\n", string(data))
}

func TestAdapter_NotConnected(t *testing.T) {
	tbl, err := table.New()
	require.NoError(t, err)
	assert.Error(t, New(nil).WriteTable(context.Background(), "merged", tbl))
}
