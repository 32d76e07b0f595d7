package secom

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// ordinalEpoch is the proleptic Gregorian ordinal of 1970-01-01, counting
// 0001-01-01 as day 1.
const ordinalEpoch = 719163

// Ordinal returns the proleptic Gregorian ordinal of t's calendar date,
// where 0001-01-01 is day 1. The time of day is ignored.
func Ordinal(t time.Time) int64 {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return midnight.Unix()/86400 + ordinalEpoch
}

// parseTimestamp reads a naive timestamp such as "19/07/2008 11:55:00".
func parseTimestamp(s string, order DateOrder) (time.Time, error) {
	ts, err := dateparse.ParseIn(s, time.UTC,
		dateparse.PreferMonthFirst(order == MonthFirst),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return ts, nil
}
