package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	importapp "github.com/lojacrm/backend/internal/application/import"
	partnerapp "github.com/lojacrm/backend/internal/application/partner"
	reportapp "github.com/lojacrm/backend/internal/application/report"
	"github.com/lojacrm/backend/internal/infrastructure/cache"
	"github.com/lojacrm/backend/internal/infrastructure/config"
	"github.com/lojacrm/backend/internal/infrastructure/logger"
	"github.com/lojacrm/backend/internal/infrastructure/persistence"
	"github.com/lojacrm/backend/internal/infrastructure/storage"
	"github.com/lojacrm/backend/internal/infrastructure/telemetry"
	"github.com/lojacrm/backend/internal/interfaces/http/handler"
	"github.com/lojacrm/backend/internal/interfaces/http/middleware"
	"github.com/lojacrm/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			CRM Backend API
//	@version		1.0
//	@description	Client sheet import, reconciliation and reporting for the store CRM

//	@BasePath	/api/v1

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const progressStreamPath = "/api/v1/imports/progress/stream"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	// Log records also go to the collector when OTLP logs are on
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if logsProvider.IsEnabled() {
		logCfg.Tee = []zapcore.Core{logsProvider.ZapCore(logger.ParseLevel(cfg.Log.Level))}
		if log, err = logger.New(logCfg); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}

	log.Info("Starting CRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              cfg.Telemetry.ProfilingEnabled,
		ServerAddress:        cfg.Telemetry.ProfilingAddress,
		ApplicationName:      cfg.Telemetry.ServiceName,
		BasicAuthUser:        cfg.Telemetry.ProfilingUser,
		BasicAuthPassword:    cfg.Telemetry.ProfilingPassword,
		MutexProfileFraction: cfg.Telemetry.MutexProfileFraction,
		BlockProfileRate:     cfg.Telemetry.BlockProfileRate,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}

	// Telemetry
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	if cfg.Telemetry.SpanProfilesEnabled && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	importMetrics, err := telemetry.NewImportMetrics(meterProvider.Meter("crm-backend/import"))
	if err != nil {
		log.Fatal("Failed to create import metrics", zap.Error(err))
	}

	// Database
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(log.Named("gorm"), logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	if db.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate SQLite schema", zap.Error(err))
		}
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        db.Driver,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db, meterProvider, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.DBMetricsEnabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}

	// Repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	prefRepo := persistence.NewGormPreferenceRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	sizeRepo := persistence.NewGormSizeRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	historyRepo := persistence.NewGormImportHistoryRepository(db.DB)
	reportRepo := persistence.NewGormCRMReportRepository(db.DB)
	truncater := persistence.NewGormTableTruncater(db.DB)

	capability, err := persistence.NewPurchaseCountCapability(db.DB, cfg.Import.PurchaseCount)
	if err != nil {
		log.Fatal("Invalid purchase count mode", zap.Error(err))
	}

	// Upload archive
	var archive importapp.UploadArchive = storage.NopArchive{}
	if cfg.Import.ArchiveUploads && cfg.Storage.Enabled {
		s3Archive, err := storage.NewS3Archive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create upload archive", zap.Error(err))
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			log.Warn("Upload archive bucket unavailable, uploads will not be archived", zap.Error(err))
		} else {
			archive = s3Archive
			log.Info("Archiving uploads", zap.String("bucket", s3Archive.Bucket()))
		}
	}

	// Import progress
	progressStore, err := cache.NewProgressStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.Redis.Required),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create progress store", zap.Error(err))
	}

	// Application services
	importService := importapp.NewClientImportService(
		clientRepo, prefRepo, brandRepo, sizeRepo, saleRepo, capability, historyRepo, log,
		importapp.WithArchive(archive),
		importapp.WithMaxErrors(cfg.Import.MaxErrors),
		importapp.WithTracer(tracerProvider.Tracer("crm-backend/import")),
	)
	historyService := importapp.NewImportHistoryService(historyRepo)
	purgeService := importapp.NewDataPurgeService(truncater, log)
	reportService := reportapp.NewReportService(reportRepo, clientRepo)
	preferenceService := partnerapp.NewClientPreferenceService(clientRepo, prefRepo)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	} else if err := engine.SetTrustedProxies(nil); err != nil {
		log.Fatal("Failed to disable trusted proxies", zap.Error(err))
	}

	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/health", progressStreamPath))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Enabled,
		SkipPaths:     []string{"/health", progressStreamPath},
		MeterProvider: meterProvider.Provider(),
	}))
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	handlers := router.CRMHandlers{
		Import: handler.NewImportHandler(importService, progressStore,
			handler.WithImportMetrics(importMetrics),
			handler.WithImportLogger(log),
			handler.WithMaxUploadSize(cfg.HTTP.MaxBodySize),
		),
		Progress: handler.NewProgressHandler(progressStore,
			handler.WithSSELogger(log),
			handler.WithSSEHeartbeat(cfg.HTTP.HeartbeatInterval),
		),
		History: handler.NewImportHistoryHandler(historyService),
		Data:    handler.NewDataHandler(purgeService, log),
		Report:  handler.NewReportHandler(reportService),
		Client:  handler.NewClientHandler(preferenceService),
		Health:  handler.NewHealthHandler(cfg.App.Name, version, db),
	}
	router.SetupCRM(engine, handlers, middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Open progress streams end when their subscriptions close
	if err := progressStore.Close(); err != nil {
		log.Warn("Error closing progress store", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := dbMetrics.Stop(); err != nil {
		log.Warn("Database metrics stop failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := logsProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}
}
