package importapp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/bulk"
	"github.com/lojacrm/backend/internal/domain/catalog"
	"github.com/lojacrm/backend/internal/domain/partner"
	"github.com/lojacrm/backend/internal/domain/trade"
	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
	"github.com/lojacrm/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/lojacrm/backend/internal/application/import"

// ImportSource is an uploaded client sheet
type ImportSource struct {
	FileName string
	Size     int64
	Reader   io.Reader
}

// ProgressFunc receives a snapshot after every state change and every row
type ProgressFunc func(sheetimport.Progress)

// UploadArchive keeps a copy of every uploaded sheet
type UploadArchive interface {
	Store(ctx context.Context, runID uuid.UUID, fileName string, data []byte) (string, error)
}

// ImportResult summarises a client import run
type ImportResult struct {
	RunID                 uuid.UUID              `json:"run_id"`
	Imported              int                    `json:"imported"`
	Errors                int                    `json:"errors"`
	Total                 int                    `json:"total"`
	SalesCreated          int                    `json:"sales_created"`
	ReferencesCreated     int64                  `json:"references_created"`
	SupportsPurchaseCount bool                   `json:"supports_purchase_count"`
	ArchiveKey            string                 `json:"archive_key,omitempty"`
	RowErrors             []sheetimport.RowError `json:"row_errors,omitempty"`
	IsTruncated           bool                   `json:"is_truncated,omitempty"`
}

// Summary returns the {imported, errors, total} triple
func (r *ImportResult) Summary() sheetimport.Summary {
	return sheetimport.Summary{Imported: r.Imported, Errors: r.Errors, Total: r.Total}
}

// ImportOption configures a ClientImportService
type ImportOption func(*ClientImportService)

// WithArchive stores each uploaded file before it is processed
func WithArchive(archive UploadArchive) ImportOption {
	return func(s *ClientImportService) {
		s.archive = archive
	}
}

// WithMaxErrors caps the row errors kept on the run record
func WithMaxErrors(n int) ImportOption {
	return func(s *ClientImportService) {
		s.maxErrors = n
	}
}

// WithTracer overrides the tracer taken from the global provider
func WithTracer(tracer trace.Tracer) ImportOption {
	return func(s *ClientImportService) {
		s.tracer = tracer
	}
}

// ClientImportService runs client sheet imports: reference pre-pass, then
// one sequential pass over the rows in file order.
type ClientImportService struct {
	reconciler  *ReferenceReconciler
	resolver    *ClientResolver
	linker      *PreferenceLinker
	merger      *SalesMerger
	capability  trade.CapabilityProbe
	historyRepo bulk.ImportHistoryRepository
	archive     UploadArchive
	logger      *zap.Logger
	tracer      trace.Tracer
	maxErrors   int
	running     atomic.Bool
}

// NewClientImportService creates a new ClientImportService
func NewClientImportService(
	clientRepo partner.ClientRepository,
	prefRepo partner.PreferenceRepository,
	brandRepo catalog.BrandRepository,
	sizeRepo catalog.SizeRepository,
	saleRepo trade.SaleRepository,
	capability trade.CapabilityProbe,
	historyRepo bulk.ImportHistoryRepository,
	logger *zap.Logger,
	opts ...ImportOption,
) *ClientImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ClientImportService{
		reconciler:  NewReferenceReconciler(brandRepo, sizeRepo, logger),
		resolver:    NewClientResolver(clientRepo),
		linker:      NewPreferenceLinker(prefRepo),
		merger:      NewSalesMerger(saleRepo),
		capability:  capability,
		historyRepo: historyRepo,
		logger:      logger.Named("client_import"),
		tracer:      otel.Tracer(tracerName),
		maxErrors:   100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Running reports whether an import is in progress
func (s *ClientImportService) Running() bool {
	return s.running.Load()
}

// Import runs one import. Per-row failures are counted and the run goes on;
// unreadable files, a failed reference pre-pass and cancellation end it in
// the error state. Rows finished before a failure stay written. A non-nil
// result is returned whenever the run record was created.
func (s *ClientImportService) Import(ctx context.Context, src ImportSource, progress ProgressFunc) (*ImportResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrImportInProgress
	}
	defer s.running.Store(false)

	if progress == nil {
		progress = func(sheetimport.Progress) {}
	}

	history, err := bulk.NewImportHistory(src.FileName, src.Size)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "import.clients", trace.WithAttributes(
		attribute.String("import.file_name", src.FileName),
		attribute.String("import.run_id", history.ID.String()),
	))
	defer span.End()

	ctx, _ = logger.WithRunID(ctx, s.logger, history.ID.String())
	log := logger.WithLogger(ctx, s.logger).With(zap.String("file", src.FileName)).Zap()
	session := sheetimport.NewImportSession(history.ID.String())
	result := &ImportResult{RunID: history.ID}

	_ = session.Begin(0)
	progress(session.Snapshot())
	s.saveHistory(ctx, history)

	fail := func(err error) (*ImportResult, error) {
		log.Error("client import failed", zap.Error(err),
			zap.Int("imported", result.Imported), zap.Int("errors", result.Errors))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		_ = session.Fail(err.Error())
		progress(session.Snapshot())
		_ = history.Fail(err.Error(), result.Total, result.Imported, result.Errors)
		s.saveHistory(context.WithoutCancel(ctx), history)
		return result, err
	}

	data, err := io.ReadAll(src.Reader)
	if err != nil {
		return fail(fmt.Errorf("read upload: %w", err))
	}
	if history.FileSize == 0 {
		history.FileSize = int64(len(data))
	}

	if s.archive != nil {
		key, err := s.archive.Store(ctx, history.ID, src.FileName, data)
		if err != nil {
			log.Warn("failed to archive upload", zap.Error(err))
		} else {
			history.ArchiveKey = key
			result.ArchiveKey = key
		}
	}

	rows, err := s.readRows(ctx, src.FileName, data)
	if err != nil {
		return fail(err)
	}
	result.Total = len(rows)
	span.SetAttributes(attribute.Int("import.rows", result.Total))
	_ = session.Advance(0, result.Total)
	progress(session.Snapshot())

	projected := make([]ClientRow, len(rows))
	for i, row := range rows {
		projected[i] = ProjectClientRow(row)
	}

	result.SupportsPurchaseCount = s.supportsPurchaseCount(ctx, log)

	lookup, err := s.reconcile(ctx, projected)
	if err != nil {
		return fail(err)
	}
	result.ReferencesCreated = lookup.Created

	collected := sheetimport.NewErrorCollection(s.maxErrors)
	for i := range projected {
		if err := ctx.Err(); err != nil {
			result.RowErrors = collected.Errors()
			result.IsTruncated = collected.IsTruncated()
			return fail(fmt.Errorf("import cancelled after %d of %d rows: %w", i, result.Total, err))
		}

		s.importRow(ctx, log, projected[i], lookup, result, collected)

		_ = session.Advance(i+1, result.Total)
		progress(session.Snapshot())
	}

	result.RowErrors = collected.Errors()
	result.IsTruncated = collected.IsTruncated()

	_ = history.Complete(result.Total, result.Imported, result.Errors, toErrorDetails(collected.Errors()))
	s.saveHistory(ctx, history)

	_ = session.Succeed(result.Summary())
	progress(session.Snapshot())

	span.SetAttributes(
		attribute.Int("import.imported", result.Imported),
		attribute.Int("import.errors", result.Errors),
		attribute.Int("import.sales_created", result.SalesCreated),
	)
	log.Info("client import completed",
		zap.Int("total", result.Total),
		zap.Int("imported", result.Imported),
		zap.Int("errors", result.Errors),
		zap.Int("sales_created", result.SalesCreated),
		zap.Int64("references_created", result.ReferencesCreated),
		zap.Bool("purchase_count", result.SupportsPurchaseCount),
	)

	return result, nil
}

func (s *ClientImportService) readRows(ctx context.Context, fileName string, data []byte) ([]*sheetimport.Row, error) {
	_, span := s.tracer.Start(ctx, "import.read")
	defer span.End()

	rows, err := sheetimport.ReadFile(fileName, bytes.NewReader(data))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return rows, nil
}

func (s *ClientImportService) reconcile(ctx context.Context, rows []ClientRow) (*ReferenceLookup, error) {
	ctx, span := s.tracer.Start(ctx, "import.reconcile_references")
	defer span.End()

	lookup, err := s.reconciler.Reconcile(ctx, rows)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return lookup, nil
}

// supportsPurchaseCount asks the probe once per run. A probe failure is
// treated as the older schema.
func (s *ClientImportService) supportsPurchaseCount(ctx context.Context, log *zap.Logger) bool {
	if s.capability == nil {
		return false
	}
	ok, err := s.capability.SupportsPurchaseCount(ctx)
	if err != nil {
		log.Warn("purchase count probe failed, importing without it", zap.Error(err))
		return false
	}
	if !ok {
		log.Warn("sales.purchase_count column not found, importing without purchase counts")
	}
	return ok
}

// importRow resolves, links and merges one row. Failures are recorded on
// the result and never stop the run.
func (s *ClientImportService) importRow(
	ctx context.Context,
	log *zap.Logger,
	row ClientRow,
	lookup *ReferenceLookup,
	result *ImportResult,
	collected *sheetimport.ErrorCollection,
) {
	name := strings.TrimSpace(row.Name)

	clientID, err := s.resolver.Resolve(ctx, row)
	if err == nil {
		err = s.linker.Link(ctx, clientID, row, lookup)
	}
	if err == nil {
		var sale *trade.Sale
		sale, err = s.merger.Merge(ctx, clientID, name, row, result.SupportsPurchaseCount)
		if sale != nil {
			result.SalesCreated++
		}
	}

	if err == nil {
		result.Imported++
		return
	}

	result.Errors++
	if errors.Is(err, ErrRowSkipped) {
		log.Warn("row skipped", zap.Int("row", row.LineNumber), zap.Error(err))
		collected.AddRequiredError(row.LineNumber, nameColumns[0])
		return
	}

	log.Warn("row import failed", zap.Int("row", row.LineNumber), zap.String("client", name), zap.Error(err))
	collected.Add(sheetimport.NewRowErrorWithValue(row.LineNumber, "", sheetimport.ErrCodeImportRowFailed, err.Error(), name))
}

// saveHistory persists the run record. Failures are logged only.
func (s *ClientImportService) saveHistory(ctx context.Context, history *bulk.ImportHistory) {
	if s.historyRepo == nil {
		return
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		s.logger.Warn("failed to save import history", zap.String("run_id", history.ID.String()), zap.Error(err))
	}
}
