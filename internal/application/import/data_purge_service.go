package importapp

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// PurgeTable names a managed table in delete order
type PurgeTable string

const (
	PurgeSales                  PurgeTable = "sales"
	PurgeClientSizePreferences  PurgeTable = "client_size_preferences"
	PurgeClientBrandPreferences PurgeTable = "client_brand_preferences"
	PurgeClients                PurgeTable = "clients"
	PurgeSizes                  PurgeTable = "sizes"
	PurgeBrands                 PurgeTable = "brands"
)

// PurgeOrder deletes dependents before the tables they reference
var PurgeOrder = []PurgeTable{
	PurgeSales,
	PurgeClientSizePreferences,
	PurgeClientBrandPreferences,
	PurgeClients,
	PurgeSizes,
	PurgeBrands,
}

// TableTruncater empties one managed table
type TableTruncater interface {
	DeleteAll(ctx context.Context, table PurgeTable) (int64, error)
}

// PurgeResult reports what ClearAll removed
type PurgeResult struct {
	Deleted map[PurgeTable]int64 `json:"deleted"`
	Failed  []PurgeTable         `json:"failed,omitempty"`
}

// DataPurgeService removes all CRM data
type DataPurgeService struct {
	truncater TableTruncater
	logger    *zap.Logger
}

// NewDataPurgeService creates a new DataPurgeService
func NewDataPurgeService(truncater TableTruncater, logger *zap.Logger) *DataPurgeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataPurgeService{
		truncater: truncater,
		logger:    logger.Named("data_purge"),
	}
}

// ClearAll deletes every managed table in PurgeOrder. A failing delete does
// not stop the remaining ones; the first failure is returned wrapped in
// ErrClearDataPartialFailure.
func (s *DataPurgeService) ClearAll(ctx context.Context) (*PurgeResult, error) {
	result := &PurgeResult{Deleted: make(map[PurgeTable]int64, len(PurgeOrder))}
	var firstErr error

	for _, table := range PurgeOrder {
		n, err := s.truncater.DeleteAll(ctx, table)
		if err != nil {
			s.logger.Error("failed to clear table", zap.String("table", string(table)), zap.Error(err))
			result.Failed = append(result.Failed, table)
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %s: %w", ErrClearDataPartialFailure, table, err)
			}
			continue
		}
		result.Deleted[table] = n
	}

	if firstErr != nil {
		return result, firstErr
	}

	s.logger.Info("all data cleared", zap.Any("deleted", result.Deleted))
	return result, nil
}
