package otel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "evalboard"
	serviceVersion = "1.0.0"
)

// Config holds OTEL exporter configuration.
type Config struct {
	Endpoint string
	Enabled  bool
	Insecure bool
}

// Exporter exports comparison view metrics to an OTEL Collector.
type Exporter struct {
	provider         *sdkmetric.MeterProvider
	meter            metric.Meter
	pagesTotal       metric.Int64Counter
	rowsTotal        metric.Int64Counter
	fetchDuration    metric.Float64Histogram
	validationsTotal metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	pagesTotal, err := meter.Int64Counter(
		"evalboard_comparison_pages_total",
		metric.WithDescription("Comparison pages fetched"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pages counter: %w", err)
	}

	rowsTotal, err := meter.Int64Counter(
		"evalboard_comparison_rows_total",
		metric.WithDescription("Comparison rows loaded"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rows counter: %w", err)
	}

	fetchDuration, err := meter.Float64Histogram(
		"evalboard_comparison_fetch_seconds",
		metric.WithDescription("Duration of paginated comparison queries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetch histogram: %w", err)
	}

	validationsTotal, err := meter.Int64Counter(
		"evalboard_filter_validations_total",
		metric.WithDescription("Filter condition validations by outcome"),
		metric.WithUnit("{validation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating validations counter: %w", err)
	}

	return &Exporter{
		provider:         provider,
		meter:            meter,
		pagesTotal:       pagesTotal,
		rowsTotal:        rowsTotal,
		fetchDuration:    fetchDuration,
		validationsTotal: validationsTotal,
	}, nil
}

// RecordPageFetch records one paginated comparison query.
func (e *Exporter) RecordPageFetch(ctx context.Context, datasetID string, rows int, duration time.Duration, failed bool) {
	opt := metric.WithAttributes(
		attribute.String("dataset_id", datasetID),
		attribute.Bool("failed", failed),
	)
	e.pagesTotal.Add(ctx, 1, opt)
	if !failed {
		e.rowsTotal.Add(ctx, int64(rows), opt)
	}
	e.fetchDuration.Record(ctx, duration.Seconds(), opt)
}

// RecordValidation records one filter validation outcome.
func (e *Exporter) RecordValidation(ctx context.Context, outcome string) {
	e.validationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Close shuts down the meter provider, flushing pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
