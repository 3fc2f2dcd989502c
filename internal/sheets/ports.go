package sheets

import (
	"context"

	"spendlog/internal/core"
)

// Exporter is the outbound port for expense export sinks.
type Exporter interface {
	// Append writes one expense to the sink and returns an opaque row
	// reference for logging.
	Append(ctx context.Context, e core.Expense) (rowRef string, err error)
}
