package cmd

import (
	"fmt"
	"io"

	importapp "github.com/lojacrm/backend/internal/application/import"
	reportapp "github.com/lojacrm/backend/internal/application/report"
	"github.com/lojacrm/backend/internal/infrastructure/config"
	"github.com/lojacrm/backend/internal/infrastructure/logger"
	"github.com/lojacrm/backend/internal/infrastructure/persistence"
	"github.com/lojacrm/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// stack is the database and the services a command works with
type stack struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *persistence.Database
	importer *importapp.ClientImportService
	history  *importapp.ImportHistoryService
	purge    *importapp.DataPurgeService
	reports  *reportapp.ReportService
}

// loadConfig reads the shared configuration. --sqlite switches the
// database to a local file so the console works without PostgreSQL.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	if opts.sqlitePath != "" {
		cfg := &config.Config{}
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.SQLitePath = opts.sqlitePath
		cfg.Import.PurchaseCount = config.PurchaseCountAuto
		cfg.Import.MaxErrors = 100
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func openStack(opts *rootOptions, logOut io.Writer) (*stack, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log := logger.NewCLI(logOut, opts.verbose)

	gormLevel := "warn"
	if opts.verbose {
		gormLevel = "debug"
	}
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(log.Named("gorm"), logger.MapGormLogLevel(gormLevel)))
	if err != nil {
		return nil, err
	}
	if db.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	capability, err := persistence.NewPurchaseCountCapability(db.DB, cfg.Import.PurchaseCount)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	clientRepo := persistence.NewGormClientRepository(db.DB)
	historyRepo := persistence.NewGormImportHistoryRepository(db.DB)

	var archive importapp.UploadArchive = storage.NopArchive{}
	if cfg.Import.ArchiveUploads && cfg.Storage.Enabled {
		s3Archive, err := storage.NewS3Archive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		archive = s3Archive
	}

	return &stack{
		cfg: cfg,
		log: log,
		db:  db,
		importer: importapp.NewClientImportService(
			clientRepo,
			persistence.NewGormPreferenceRepository(db.DB),
			persistence.NewGormBrandRepository(db.DB),
			persistence.NewGormSizeRepository(db.DB),
			persistence.NewGormSaleRepository(db.DB),
			capability,
			historyRepo,
			log,
			importapp.WithArchive(archive),
			importapp.WithMaxErrors(cfg.Import.MaxErrors),
		),
		history: importapp.NewImportHistoryService(historyRepo),
		purge:   importapp.NewDataPurgeService(persistence.NewGormTableTruncater(db.DB), log),
		reports: reportapp.NewReportService(persistence.NewGormCRMReportRepository(db.DB), clientRepo),
	}, nil
}

func (s *stack) Close() {
	_ = s.log.Sync()
	_ = s.db.Close()
}
