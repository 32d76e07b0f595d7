package xlsx

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/leapstack-labs/secom/internal/testutil"
	"github.com/leapstack-labs/secom/pkg/adapter"
	"github.com/leapstack-labs/secom/pkg/table"
)

func TestAdapter_WriteWorkbook(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "secom.xlsx")

	merged, err := table.New(
		table.NewIntColumn("s_label_target", []int64{1, 0}),
		table.NewFloatColumn("s_data_0", []float64{math.NaN(), 2932.61}),
		table.NewStringColumn("json_vendor", []string{"Acme Corp", "Globex"}),
	)
	require.NoError(t, err)
	labels, err := table.New(table.NewIntColumn("s_label_target", []int64{1, 0}))
	require.NoError(t, err)

	adp := New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(ctx, adapter.Config{Type: "xlsx", Path: path}))
	require.NoError(t, adp.WriteTable(ctx, "labels", merged))
	require.NoError(t, adp.WriteTable(ctx, "merged", merged))
	require.NoError(t, adp.WriteTable(ctx, "labels", labels))
	require.NoError(t, adp.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"labels", "merged"}, f.GetSheetList())

	rows, err := f.GetRows("merged")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"s_label_target", "s_data_0", "json_vendor"}, rows[0])
	assert.Equal(t, []string{"1", "", "Acme Corp"}, rows[1])
	assert.Equal(t, []string{"0", "2932.61", "Globex"}, rows[2])

	rows, err = f.GetRows("labels")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Len(t, rows[0], 1, "second write replaced the staged table")
}

func TestAdapter_RequiresPath(t *testing.T) {
	adp := New(nil)
	assert.Error(t, adp.Connect(context.Background(), adapter.Config{}))
	assert.Error(t, adp.WriteTable(context.Background(), "merged", nil))
	assert.NoError(t, adp.Close())
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"merged", "merged"},
		{"a/b:c", "a_b_c"},
		{"", "Sheet1"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SheetName(tt.in))
		})
	}
}
