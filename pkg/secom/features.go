package secom

import (
	"math"
	"strconv"

	"github.com/leapstack-labs/secom/pkg/table"
)

// LoadFeatures reads the sensor readings. Each space-separated field becomes
// a float column named s_data_<i>; empty fields and NaN tokens are NaN.
func LoadFeatures(dir string, opts ...Option) (*table.Table, error) {
	o := newOptions(DefaultFeaturesFile, opts)
	logger := o.logger.With("source", "features")

	records, path, err := readDelimited(dir, o.filename, 0)
	if err != nil {
		return nil, err
	}
	logger.Debug("loading features", "path", path, "rows", len(records))

	width := len(records[0])
	cols := make([][]float64, width)
	for j := range cols {
		cols[j] = make([]float64, len(records))
	}

	for i, rec := range records {
		for j, field := range rec {
			v, err := parseReading(field)
			if err != nil {
				return nil, &ParseError{
					Path:    path,
					Line:    i + 1,
					Column:  j + 1,
					Message: "invalid sensor reading " + strconv.Quote(field),
				}
			}
			cols[j][i] = v
		}
	}

	columns := make([]*table.Column, width)
	for j, values := range cols {
		columns[j] = table.NewFloatColumn(strconv.Itoa(j), values)
	}
	t, err := table.New(columns...)
	if err != nil {
		return nil, err
	}

	t = t.AddPrefix(FeaturePrefix)
	logger.Debug("loaded features", "rows", t.NumRows(), "columns", t.NumCols())
	return t, nil
}

func parseReading(field string) (float64, error) {
	switch field {
	case "", "NaN", "nan", "NA":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(field, 64)
}
