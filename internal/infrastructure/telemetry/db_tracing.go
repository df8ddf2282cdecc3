package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	SlowQueryThresh time.Duration
	DBSystem        string // postgresql, sqlite
	TracerProvider  trace.TracerProvider
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// RegisterDBTracing installs the otelgorm plugin on db and flags statements
// slower than the threshold on their span. Query variables are never recorded
// since rows carry client tax ids and phone numbers.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(cfg.DBSystem),
		otelgorm.WithoutQueryVariables(),
		otelgorm.WithoutMetrics(),
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := registerSlowQueryCallbacks(db, cfg.SlowQueryThresh); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

// registerSlowQueryCallbacks times each statement. The after hook runs before
// otelgorm ends the span so the flag lands on the statement span.
func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartTimeKey, time.Now())
		}
	}
	after := func(tx *gorm.DB) {
		markSlowQuery(tx, threshold)
	}

	cb := db.Callback()
	type register interface {
		Register(name string, fn func(*gorm.DB)) error
	}
	hooks := []struct {
		callback register
		hook     func(*gorm.DB)
		name     string
	}{
		{cb.Create().Before("gorm:create"), before, "before:create"},
		{cb.Create().After("gorm:create").Before("otel:after:create"), after, "after:create"},
		{cb.Query().Before("gorm:query"), before, "before:select"},
		{cb.Query().After("gorm:query").Before("otel:after:select"), after, "after:select"},
		{cb.Update().Before("gorm:update"), before, "before:update"},
		{cb.Update().After("gorm:update").Before("otel:after:update"), after, "after:update"},
		{cb.Delete().Before("gorm:delete"), before, "before:delete"},
		{cb.Delete().After("gorm:delete").Before("otel:after:delete"), after, "after:delete"},
		{cb.Raw().Before("gorm:raw"), before, "before:raw"},
		{cb.Raw().After("gorm:raw").Before("otel:after:raw"), after, "after:raw"},
	}

	for _, h := range hooks {
		if err := h.callback.Register("crm_timing:"+h.name, h.hook); err != nil {
			return fmt.Errorf("callback register %s failed: %w", h.name, err)
		}
	}
	return nil
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil || threshold <= 0 {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
