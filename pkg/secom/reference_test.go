package secom

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceRows is the row count of the published SECOM dataset.
const referenceRows = 1567

// TestReferenceDataset checks the full dataset when SECOM_DATA_DIR points at
// a directory holding secom.data, secom_labels.data and vendordata.json.
func TestReferenceDataset(t *testing.T) {
	dir := os.Getenv("SECOM_DATA_DIR")
	if dir == "" {
		t.Skip("SECOM_DATA_DIR not set")
	}

	features, err := LoadFeatures(dir)
	require.NoError(t, err)
	assert.Equal(t, referenceRows, features.NumRows())

	labels, err := LoadLabels(dir)
	require.NoError(t, err)
	assert.Equal(t, referenceRows, labels.NumRows())

	vendor, err := LoadVendor(dir)
	require.NoError(t, err)
	assert.Equal(t, referenceRows, vendor.NumRows())

	merged, err := Combine(features, labels, vendor, WithStrict(true))
	require.NoError(t, err)
	assert.Equal(t, referenceRows, merged.NumRows())
}
