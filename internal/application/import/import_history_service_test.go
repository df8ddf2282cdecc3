package importapp

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/bulk"
	"github.com/lojacrm/backend/internal/domain/shared"
	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportHistoryService_GetHistory(t *testing.T) {
	ctx := context.Background()
	repo := new(MockImportHistoryRepository)
	service := NewImportHistoryService(repo)

	history, err := bulk.NewImportHistory("clientes.xlsx", 2048)
	require.NoError(t, err)
	missing := uuid.New()

	repo.On("FindByID", ctx, history.ID).Return(history, nil)
	repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

	got, err := service.GetHistory(ctx, history.ID)
	require.NoError(t, err)
	assert.Equal(t, "clientes.xlsx", got.FileName)

	_, err = service.GetHistory(ctx, missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestImportHistoryService_ListRecent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, defaultHistoryLimit},
		{"custom", 5, 5},
		{"capped", 1000, maxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockImportHistoryRepository)
			repo.On("FindRecent", ctx, tt.want).Return([]*bulk.ImportHistory{}, nil)

			_, err := NewImportHistoryService(repo).ListRecent(ctx, tt.limit)

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestToErrorDetails(t *testing.T) {
	details := toErrorDetails([]sheetimport.RowError{
		sheetimport.NewRowErrorWithValue(4, "cliente", sheetimport.ErrCodeImportRowFailed, "boom", "Ana"),
	})

	require.Len(t, details, 1)
	assert.Equal(t, bulk.ImportErrorDetail{Row: 4, Column: "cliente", Code: sheetimport.ErrCodeImportRowFailed, Message: "boom", Value: "Ana"}, details[0])
	assert.Empty(t, toErrorDetails(nil))
}
