package secom

import (
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/secom/pkg/table"
)

// Label column names before prefixing.
const (
	targetColumn        = "target"
	datetimeColumn      = "datetime"
	labelOrdinalColumn  = "datetime_ordinal_eng"
	monthIndicatorStem  = "month_"
	vendorOrdinalColumn = "datetime_ordinal"
)

// Human-readable target values.
const (
	LabelPass = "Pass"
	LabelFail = "Fail"
)

// LoadLabels reads the pass/fail labels and their timestamps.
//
// The raw target is -1 for a passing run and 1 for a failing one. It is
// always recoded: to "Pass"/"Fail" with WithHumanLabels, otherwise to 1/0.
// With feature engineering (the default) the timestamp is replaced by
// datetime_ordinal_eng and one month__<m> indicator per month present in
// the data; without it the timestamp is kept as a time column.
func LoadLabels(dir string, opts ...Option) (*table.Table, error) {
	o := newOptions(DefaultLabelsFile, opts)
	logger := o.logger.With("source", "labels")

	records, path, err := readDelimited(dir, o.filename, 2)
	if err != nil {
		return nil, err
	}
	logger.Debug("loading labels", "path", path, "rows", len(records),
		"feature_engineer", o.featureEngineer, "human_labels", o.humanLabels)

	targets := make([]any, len(records))
	stamps := make([]time.Time, len(records))
	for i, rec := range records {
		raw, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil || (raw != -1 && raw != 1) {
			return nil, &ParseError{
				Path:    path,
				Line:    i + 1,
				Column:  1,
				Message: "target must be -1 or 1, got " + strconv.Quote(rec[0]),
			}
		}
		targets[i] = recodeTarget(raw, o.humanLabels)

		ts, err := parseTimestamp(rec[1], o.dateOrder)
		if err != nil {
			return nil, &ParseError{Path: path, Line: i + 1, Column: 2, Message: "invalid timestamp", Err: err}
		}
		stamps[i] = ts
	}

	targetKind := table.Int
	if o.humanLabels {
		targetKind = table.String
	}

	t, err := table.New(
		table.NewColumn(targetColumn, targetKind, targets),
		table.NewTimeColumn(datetimeColumn, stamps),
	)
	if err != nil {
		return nil, err
	}

	if o.featureEngineer {
		if t, err = engineerLabelDates(t, stamps); err != nil {
			return nil, err
		}
	}

	t = t.AddPrefix(LabelPrefix)
	logger.Debug("loaded labels", "rows", t.NumRows(), "columns", t.NumCols())
	return t, nil
}

// recodeTarget maps the raw -1/1 target. -1 (pass) becomes 1 or "Pass";
// 1 (fail) becomes 0 or "Fail".
func recodeTarget(raw int, human bool) any {
	if human {
		if raw == -1 {
			return LabelPass
		}
		return LabelFail
	}
	if raw == -1 {
		return int64(1)
	}
	return int64(0)
}

func engineerLabelDates(t *table.Table, stamps []time.Time) (*table.Table, error) {
	ordinals := make([]int64, len(stamps))
	months := make([]int64, len(stamps))
	for i, ts := range stamps {
		ordinals[i] = Ordinal(ts)
		months[i] = int64(ts.Month())
	}

	t, err := t.WithColumn(table.NewIntColumn(labelOrdinalColumn, ordinals))
	if err != nil {
		return nil, err
	}

	// "month_" plus the "_" separator yields month__<m>.
	for _, c := range table.Dummies(table.NewIntColumn("month", months), monthIndicatorStem, "_") {
		if t, err = t.WithColumn(c); err != nil {
			return nil, err
		}
	}

	return t.Drop(datetimeColumn)
}
