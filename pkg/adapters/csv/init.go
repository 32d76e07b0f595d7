package csv

import (
	"log/slog"

	"github.com/leapstack-labs/secom/pkg/adapter"
)

func init() {
	adapter.Register("csv", "directory of CSV files, one per table",
		func(l *slog.Logger) adapter.Adapter { return New(l) })
}
