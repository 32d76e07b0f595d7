package secom

import (
	"fmt"

	"github.com/leapstack-labs/secom/pkg/table"
)

// Combine merges the features, labels and vendor tables with two inner
// joins, features first.
//
// By default rows are matched on their index, which for freshly loaded
// tables is the row position. Rows whose index is missing from any input are
// dropped without error; the loss is logged at WARN level. WithStrict turns
// that loss into a RowCountMismatchError, and WithKey joins on a named
// row-identifier column present in all three tables instead of the index.
func Combine(features, labels, vendor *table.Table, opts ...Option) (*table.Table, error) {
	o := newOptions("", opts)
	logger := o.logger.With("step", "combine")

	if features == nil || labels == nil || vendor == nil {
		return nil, fmt.Errorf("combine requires three tables")
	}

	var merged *table.Table
	if o.joinKey != "" {
		logger.Debug("joining on key column", "key", o.joinKey)
		partial, err := table.JoinOn(features, labels, o.joinKey)
		if err != nil {
			return nil, fmt.Errorf("failed to join features and labels: %w", err)
		}
		if merged, err = table.JoinOn(partial, vendor, o.joinKey); err != nil {
			return nil, fmt.Errorf("failed to join vendor data: %w", err)
		}
	} else {
		merged = table.JoinIndex(table.JoinIndex(features, labels), vendor)
	}

	counts := map[string]int{
		"features": features.NumRows(),
		"labels":   labels.NumRows(),
		"vendor":   vendor.NumRows(),
	}
	lost := false
	for _, n := range counts {
		if n != merged.NumRows() {
			lost = true
		}
	}

	if lost {
		if o.strict {
			return nil, &RowCountMismatchError{Counts: counts, Rows: merged.NumRows()}
		}
		logger.Warn("rows dropped by join",
			"features", counts["features"],
			"labels", counts["labels"],
			"vendor", counts["vendor"],
			"merged", merged.NumRows())
	}

	logger.Debug("combined sources", "rows", merged.NumRows(), "columns", merged.NumCols())
	return merged, nil
}
