package otel

import (
	"context"
	"time"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordPageFetch(ctx context.Context, datasetID string, rows int, duration time.Duration, failed bool) {
}

func (e *NoOpExporter) RecordValidation(ctx context.Context, outcome string) {}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
