package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	importapp "github.com/lojacrm/backend/internal/application/import"
	"github.com/lojacrm/backend/internal/infrastructure/cache"
	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
	"github.com/lojacrm/backend/internal/infrastructure/logger"
	"github.com/lojacrm/backend/internal/infrastructure/telemetry"
	"github.com/lojacrm/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// DefaultMaxUploadSize applies when no body limit is configured (20MB)
const DefaultMaxUploadSize = 20 << 20

// ImportHandler accepts client sheet uploads and runs the import
type ImportHandler struct {
	BaseHandler
	importer      *importapp.ClientImportService
	progress      cache.ProgressStore
	metrics       *telemetry.ImportMetrics
	logger        *zap.Logger
	maxUploadSize int64
}

// ImportHandlerOption configures an ImportHandler
type ImportHandlerOption func(*ImportHandler)

// WithImportMetrics records every run on the given instruments
func WithImportMetrics(m *telemetry.ImportMetrics) ImportHandlerOption {
	return func(h *ImportHandler) {
		h.metrics = m
	}
}

// WithImportLogger sets the handler logger
func WithImportLogger(logger *zap.Logger) ImportHandlerOption {
	return func(h *ImportHandler) {
		h.logger = logger
	}
}

// WithMaxUploadSize caps the uploaded file size
func WithMaxUploadSize(n int64) ImportHandlerOption {
	return func(h *ImportHandler) {
		if n > 0 {
			h.maxUploadSize = n
		}
	}
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importer *importapp.ClientImportService, progress cache.ProgressStore, opts ...ImportHandlerOption) *ImportHandler {
	h := &ImportHandler{
		importer:      importer,
		progress:      progress,
		logger:        zap.NewNop(),
		maxUploadSize: DefaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ImportClients godoc
//
//	@Summary		Import the client sheet
//	@Description	Runs the reference pre-pass, then resolves, links and merges every row in file order
//	@Tags			import
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Client sheet (.xlsx, .xlsm or .csv)"
//	@Success		200		{object}	dto.Response{data=dto.ImportResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		409		{object}	dto.Response
//	@Failure		413		{object}	dto.Response
//	@Failure		422		{object}	dto.Response
//	@Router			/imports/clients [post]
func (h *ImportHandler) ImportClients(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "file exceeds the maximum upload size")
		return
	}

	ctx := c.Request.Context()
	log := logger.WithLogger(ctx, h.logger).With(zap.String("file", header.Filename), zap.Int64("size", header.Size)).Zap()
	started := time.Now()

	result, err := h.importer.Import(ctx, importapp.ImportSource{
		FileName: header.Filename,
		Size:     header.Size,
		Reader:   file,
	}, h.publish(ctx, log))

	h.record(ctx, result, err, time.Since(started))

	if err != nil {
		log.Warn("client import request failed", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewImportResponse(result))
}

// publish forwards every snapshot to the progress store. Publishing
// outlives a cancelled request so watchers still see the error state.
func (h *ImportHandler) publish(ctx context.Context, log *zap.Logger) importapp.ProgressFunc {
	if h.progress == nil {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	return func(p sheetimport.Progress) {
		if err := h.progress.Publish(ctx, p); err != nil {
			log.Debug("failed to publish import progress", zap.Error(err))
		}
	}
}

func (h *ImportHandler) record(ctx context.Context, result *importapp.ImportResult, err error, elapsed time.Duration) {
	if result == nil {
		return
	}
	status := string(sheetimport.StateSuccess)
	if err != nil {
		status = string(sheetimport.StateError)
	}
	h.metrics.RecordRun(context.WithoutCancel(ctx), telemetry.ImportRun{
		Status:            status,
		Imported:          result.Imported,
		Errors:            result.Errors,
		ReferencesCreated: result.ReferencesCreated,
		SalesCreated:      result.SalesCreated,
		Duration:          elapsed,
	})
}
