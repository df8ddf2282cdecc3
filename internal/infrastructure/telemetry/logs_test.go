package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/lojacrm/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range records {
		e.records = append(e.records, records[i].Clone())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingExporter) Records() []sdklog.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]sdklog.Record(nil), e.records...)
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	lp, err := NewLoggerProvider(ctx, LogsConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:4317",
		ServiceName:       "crm-test",
	}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.IsType(t, zapcore.NewNopCore(), lp.ZapCore(zapcore.InfoLevel))
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestNewLoggerProvider_Enabled(t *testing.T) {
	// The gRPC exporter connects lazily, so no collector is needed to build one
	ctx := context.Background()

	lp, err := NewLoggerProvider(ctx, LogsConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:4317",
		ServiceName:       "crm-test",
		Insecure:          true,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, lp.IsEnabled())

	shutdownCtx, cancel := context.WithCancel(ctx)
	cancel()
	_ = lp.Shutdown(shutdownCtx)
}

func TestLoggerProvider_ZapCore(t *testing.T) {
	exporter := &recordingExporter{}
	lp, err := newLoggerProvider(LogsConfig{ServiceName: "crm-test"}, sdklog.NewSimpleProcessor(exporter), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	local, observed := observer.New(zapcore.DebugLevel)
	log := zap.New(zapcore.NewTee(local, lp.ZapCore(zapcore.InfoLevel)))

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "import.clients")
	defer span.End()

	t.Run("row failures carry the import span", func(t *testing.T) {
		logger.WithLogger(ctx, log).Warn("row import failed", zap.Int("row", 7))

		records := exporter.Records()
		require.Len(t, records, 1)
		rec := records[0]
		assert.Equal(t, "row import failed", rec.Body().AsString())
		assert.Equal(t, otellog.SeverityWarn, rec.Severity())
		assert.Equal(t, span.SpanContext().TraceID(), rec.TraceID())
		assert.Equal(t, span.SpanContext().SpanID(), rec.SpanID())

		var row int64
		rec.WalkAttributes(func(kv otellog.KeyValue) bool {
			if kv.Key == "row" {
				row = kv.Value.AsInt64()
			}
			return true
		})
		assert.Equal(t, int64(7), row)

		// The context field never reaches local encoders
		entries := observed.FilterMessage("row import failed").All()
		require.Len(t, entries, 1)
		assert.NotContains(t, entries[0].ContextMap(), "ctx")
		assert.Equal(t, span.SpanContext().TraceID().String(), entries[0].ContextMap()["trace_id"])
	})

	t.Run("entries below the level stay local", func(t *testing.T) {
		before := len(exporter.Records())
		log.Debug("purchase count column found")

		assert.Len(t, exporter.Records(), before)
		assert.Len(t, observed.FilterMessage("purchase count column found").All(), 1)
	})
}
