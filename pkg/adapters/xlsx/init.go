package xlsx

import (
	"log/slog"

	"github.com/leapstack-labs/secom/pkg/adapter"
)

func init() {
	adapter.Register("xlsx", "Excel workbook, one worksheet per table",
		func(l *slog.Logger) adapter.Adapter { return New(l) })
}
