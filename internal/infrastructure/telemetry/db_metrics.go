package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lojacrm/backend/internal/infrastructure/persistence"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Attribute keys used by the database instruments
var (
	AttrDBState     = attribute.Key("db.pool.state")
	AttrDBOperation = attribute.Key("db.operation")
	AttrDBTable     = attribute.Key("db.table")
)

// DBDurationBuckets are bucket boundaries for single statements (seconds).
var DBDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// DBMetricsConfig holds configuration for database metrics.
type DBMetricsConfig struct {
	Enabled            bool
	SlowQueryThreshold time.Duration
}

// PoolStatsSource reports connection pool statistics. persistence.Database
// satisfies it.
type PoolStatsSource interface {
	Stats() (persistence.ConnectionStats, error)
}

// DBMetrics holds the connection pool and statement instruments.
// Pool gauges are observed from the source at each collection.
type DBMetrics struct {
	queryTotal     metric.Int64Counter
	queryDuration  metric.Float64Histogram
	slowQueryTotal metric.Int64Counter

	registration metric.Registration
	config       DBMetricsConfig
	logger       *zap.Logger
	stopOnce     sync.Once
}

// NewDBMetrics creates the database instruments on meter and starts
// observing pool statistics from pool.
func NewDBMetrics(meter metric.Meter, pool PoolStatsSource, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}

	connections, err := meter.Int64ObservableGauge("db.pool.connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge db.pool.connections: %w", err)
	}
	connectionsMax, err := meter.Int64ObservableGauge("db.pool.connections_max",
		metric.WithDescription("Maximum open connections allowed"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge db.pool.connections_max: %w", err)
	}
	waitCount, err := meter.Int64ObservableCounter("db.pool.wait_count",
		metric.WithDescription("Connections waited for since the pool opened"),
		metric.WithUnit("{wait}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter db.pool.wait_count: %w", err)
	}
	queryTotal, err := meter.Int64Counter("db.query.count",
		metric.WithDescription("Statements executed by operation"),
		metric.WithUnit("{query}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter db.query.count: %w", err)
	}
	queryDuration, err := meter.Float64Histogram("db.query.duration",
		metric.WithDescription("Statement latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DBDurationBuckets...))
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram db.query.duration: %w", err)
	}
	slowQueryTotal, err := meter.Int64Counter("db.query.slow",
		metric.WithDescription("Statements slower than the slow query threshold"),
		metric.WithUnit("{query}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter db.query.slow: %w", err)
	}

	m := &DBMetrics{
		queryTotal:     queryTotal,
		queryDuration:  queryDuration,
		slowQueryTotal: slowQueryTotal,
		config:         cfg,
		logger:         logger,
	}

	m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats, err := pool.Stats()
		if err != nil {
			return err
		}
		o.ObserveInt64(connectionsMax, int64(stats.MaxOpenConnections))
		o.ObserveInt64(connections, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(connections, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(connections, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		o.ObserveInt64(waitCount, stats.WaitCount)
		return nil
	}, connections, connectionsMax, waitCount)
	if err != nil {
		return nil, fmt.Errorf("failed to register pool stats callback: %w", err)
	}
	return m, nil
}

// RecordQuery records one finished statement.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration) {
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "UNKNOWN"
	}
	op := metric.WithAttributes(AttrDBOperation.String(operation))
	m.queryTotal.Add(ctx, 1, op)
	m.queryDuration.Record(ctx, duration.Seconds(), op)

	if duration > m.config.SlowQueryThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Add(ctx, 1, metric.WithAttributes(AttrDBTable.String(table)))
	}
}

// Stop stops observing pool statistics. Safe to call more than once.
func (m *DBMetrics) Stop() error {
	if m == nil {
		return nil
	}
	var err error
	m.stopOnce.Do(func() {
		if m.registration != nil {
			err = m.registration.Unregister()
		}
	})
	return err
}

// DBMetricsPlugin is a GORM plugin recording statement metrics.
type DBMetricsPlugin struct {
	metrics *DBMetrics
}

// NewDBMetricsPlugin creates the GORM plugin for metrics.
func NewDBMetricsPlugin(metrics *DBMetrics) *DBMetricsPlugin {
	return &DBMetricsPlugin{metrics: metrics}
}

// Name returns the plugin name.
func (p *DBMetricsPlugin) Name() string {
	return "crm_db_metrics"
}

type dbMetricsContextKey struct{}

// Initialize registers the timing callbacks around every statement kind.
func (p *DBMetricsPlugin) Initialize(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, dbMetricsContextKey{}, time.Now())
		}
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			op := operation
			if op == "" {
				op = detectOperationType(tx.Statement.SQL.String())
			}
			p.record(tx, op)
		}
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
		{cb.Create().After("gorm:create"), after("INSERT"), "after:create"},
		{cb.Query().Before("gorm:query"), before, "before:select"},
		{cb.Query().After("gorm:query"), after("SELECT"), "after:select"},
		{cb.Update().Before("gorm:update"), before, "before:update"},
		{cb.Update().After("gorm:update"), after("UPDATE"), "after:update"},
		{cb.Delete().Before("gorm:delete"), before, "before:delete"},
		{cb.Delete().After("gorm:delete"), after("DELETE"), "after:delete"},
		{cb.Row().Before("gorm:row"), before, "before:row"},
		{cb.Row().After("gorm:row"), after(""), "after:row"},
		{cb.Raw().Before("gorm:raw"), before, "before:raw"},
		{cb.Raw().After("gorm:raw"), after(""), "after:raw"},
	}
	for _, h := range hooks {
		if err := h.callback.Register("crm_metrics:"+h.name, h.hook); err != nil {
			return fmt.Errorf("callback register %s failed: %w", h.name, err)
		}
	}
	return nil
}

func (p *DBMetricsPlugin) record(tx *gorm.DB, operation string) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(dbMetricsContextKey{}).(time.Time)
	if !ok {
		return
	}
	p.metrics.RecordQuery(ctx, operation, tx.Statement.Table, time.Since(start))
}

func detectOperationType(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE", "TRUNCATE"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "OTHER"
}

// RegisterDBMetrics instruments db when metrics are exported. It returns nil
// metrics when disabled; Stop on a nil *DBMetrics is a no-op.
func RegisterDBMetrics(db *persistence.Database, mp *MeterProvider, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if !cfg.Enabled || mp == nil || !mp.IsEnabled() {
		return nil, nil
	}
	if db == nil || db.DB == nil {
		return nil, errors.New("database metrics need an open database")
	}

	metrics, err := NewDBMetrics(mp.Meter("crm-backend/db"), db, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := db.DB.Use(NewDBMetricsPlugin(metrics)); err != nil {
		_ = metrics.Stop()
		return nil, err
	}

	logger.Info("Database metrics registered",
		zap.String("driver", db.Driver),
		zap.Duration("slow_query_threshold", metrics.config.SlowQueryThreshold),
	)
	return metrics, nil
}
