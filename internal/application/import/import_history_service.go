package importapp

import (
	"context"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/bulk"
	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ImportHistoryService reads the record kept for each import run
type ImportHistoryService struct {
	historyRepo bulk.ImportHistoryRepository
}

// NewImportHistoryService creates a new ImportHistoryService
func NewImportHistoryService(historyRepo bulk.ImportHistoryRepository) *ImportHistoryService {
	return &ImportHistoryService{
		historyRepo: historyRepo,
	}
}

// GetHistory retrieves a specific import run by ID
func (s *ImportHistoryService) GetHistory(ctx context.Context, id uuid.UUID) (*bulk.ImportHistory, error) {
	return s.historyRepo.FindByID(ctx, id)
}

// ListRecent returns the latest runs, newest first
func (s *ImportHistoryService) ListRecent(ctx context.Context, limit int) ([]*bulk.ImportHistory, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.historyRepo.FindRecent(ctx, limit)
}

// toErrorDetails converts collected row errors into their stored form
func toErrorDetails(errors []sheetimport.RowError) []bulk.ImportErrorDetail {
	details := make([]bulk.ImportErrorDetail, len(errors))
	for i, e := range errors {
		details[i] = bulk.ImportErrorDetail{
			Row:     e.Row,
			Column:  e.Column,
			Code:    e.Code,
			Message: e.Message,
			Value:   e.Value,
		}
	}
	return details
}
