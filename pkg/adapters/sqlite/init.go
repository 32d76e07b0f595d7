package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/secom/pkg/adapter"
)

func init() {
	adapter.Register("sqlite", "SQLite database file with an exports ledger",
		func(l *slog.Logger) adapter.Adapter { return New(l) })
}
