package ports

import (
	"context"
	"time"
)

// MetricsExporter exports comparison view metrics to an external
// observability system.
type MetricsExporter interface {
	// RecordPageFetch records one paginated comparison query.
	RecordPageFetch(ctx context.Context, datasetID string, rows int, duration time.Duration, failed bool)
	// RecordValidation records one filter validation with its outcome
	// ("valid", "invalid", or "errored").
	RecordValidation(ctx context.Context, outcome string)
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
