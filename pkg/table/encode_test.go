package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDummies(t *testing.T) {
	months := NewIntColumn("month", []int64{7, 8, 7, 12})

	cols := Dummies(months, "month_", "_")
	require.Len(t, cols, 3, "only observed months get a column")

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
		assert.Equal(t, Int, c.Kind())
	}
	assert.Equal(t, []string{"month__7", "month__8", "month__12"}, names)
	assert.Equal(t, []any{int64(1), int64(0), int64(1), int64(0)}, cols[0].Values())
	assert.Equal(t, []any{int64(0), int64(0), int64(0), int64(1)}, cols[2].Values())
}

func TestDummies_NullRow(t *testing.T) {
	c := NewColumn("vendor", String, []any{"b", nil, "a"})

	cols := Dummies(c, "vendor", "_")
	require.Len(t, cols, 2)
	assert.Equal(t, "vendor_a", cols[0].Name())
	assert.Equal(t, []any{int64(0), int64(0), int64(1)}, cols[0].Values())
	assert.Equal(t, []any{int64(1), int64(0), int64(0)}, cols[1].Values())
}

func TestTable_GetDummies(t *testing.T) {
	tbl := mustNew(t,
		NewStringColumn("supplier", []string{"x", "y"}),
		NewFloatColumn("lot size", []float64{1, 2}),
		NewStringColumn("grade", []string{"A", "A"}),
	)

	tests := []struct {
		name  string
		cols  []string
		want  []string
		isErr bool
	}{
		{
			name: "all string columns",
			want: []string{"lot size", "supplier_x", "supplier_y", "grade_A"},
		},
		{
			name: "selected column",
			cols: []string{"grade"},
			want: []string{"supplier", "lot size", "grade_A"},
		},
		{
			name:  "unknown column",
			cols:  []string{"nope"},
			isErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tbl.GetDummies(tt.cols...)
			if tt.isErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Columns())
			assert.Equal(t, tbl.NumRows(), out.NumRows())
		})
	}
}
