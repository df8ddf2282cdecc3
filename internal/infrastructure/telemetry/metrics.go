package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// MeterProvider wraps the OpenTelemetry MeterProvider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// NewMeterProvider creates a MeterProvider exporting over OTLP every minute.
// When telemetry is disabled the global no-op meter is used.
func NewMeterProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger}
	if !cfg.Enabled {
		return mp, nil
	}

	exporterOpts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint),
	}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(time.Minute))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("OpenTelemetry MeterProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
	)
	return mp, nil
}

// Meter returns a named meter from the provider.
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// Provider returns the underlying provider, or the global one when disabled.
func (mp *MeterProvider) Provider() metric.MeterProvider {
	if mp.provider == nil {
		return otel.GetMeterProvider()
	}
	return mp.provider
}

// Shutdown flushes pending metrics and stops the provider.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// Attribute keys used by the import instruments
var (
	AttrImportStatus = attribute.Key("import.status")
	AttrRowOutcome   = attribute.Key("import.row_outcome")
)

// ImportDurationBuckets are bucket boundaries for whole import runs (seconds).
var ImportDurationBuckets = []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// ImportRun is what one finished import run reports to ImportMetrics
type ImportRun struct {
	Status            string // success, error
	Imported          int
	Errors            int
	ReferencesCreated int64
	SalesCreated      int
	Duration          time.Duration
}

// ImportMetrics holds the instruments describing spreadsheet imports
type ImportMetrics struct {
	runs       metric.Int64Counter
	rows       metric.Int64Counter
	references metric.Int64Counter
	sales      metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewImportMetrics creates the import instruments on meter
func NewImportMetrics(meter metric.Meter) (*ImportMetrics, error) {
	runs, err := meter.Int64Counter("crm.import.runs",
		metric.WithDescription("Spreadsheet import runs by final status"),
		metric.WithUnit("{run}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter crm.import.runs: %w", err)
	}
	rows, err := meter.Int64Counter("crm.import.rows",
		metric.WithDescription("Spreadsheet rows processed by outcome"),
		metric.WithUnit("{row}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter crm.import.rows: %w", err)
	}
	references, err := meter.Int64Counter("crm.import.references_created",
		metric.WithDescription("Brands and sizes created by imports"),
		metric.WithUnit("{reference}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter crm.import.references_created: %w", err)
	}
	sales, err := meter.Int64Counter("crm.import.sales_created",
		metric.WithDescription("Delta sales appended to the ledger by imports"),
		metric.WithUnit("{sale}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter crm.import.sales_created: %w", err)
	}
	duration, err := meter.Float64Histogram("crm.import.duration",
		metric.WithDescription("Wall time of an import run"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(ImportDurationBuckets...))
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram crm.import.duration: %w", err)
	}

	return &ImportMetrics{
		runs:       runs,
		rows:       rows,
		references: references,
		sales:      sales,
		duration:   duration,
	}, nil
}

// RecordRun records one finished run
func (m *ImportMetrics) RecordRun(ctx context.Context, run ImportRun) {
	if m == nil {
		return
	}
	status := metric.WithAttributes(AttrImportStatus.String(run.Status))
	m.runs.Add(ctx, 1, status)
	m.duration.Record(ctx, run.Duration.Seconds(), status)
	if run.Imported > 0 {
		m.rows.Add(ctx, int64(run.Imported), metric.WithAttributes(AttrRowOutcome.String("imported")))
	}
	if run.Errors > 0 {
		m.rows.Add(ctx, int64(run.Errors), metric.WithAttributes(AttrRowOutcome.String("error")))
	}
	if run.ReferencesCreated > 0 {
		m.references.Add(ctx, run.ReferencesCreated)
	}
	if run.SalesCreated > 0 {
		m.sales.Add(ctx, int64(run.SalesCreated))
	}
}

// IsEnabled reports whether metrics are exported.
func (mp *MeterProvider) IsEnabled() bool {
	return mp.provider != nil
}
