package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	importapp "github.com/lojacrm/backend/internal/application/import"
	"github.com/lojacrm/backend/internal/domain/bulk"
	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeValidationRange, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeImportInProgress, http.StatusConflict},
		{ErrCodeImportInvalidFile, http.StatusUnprocessableEntity},
		{ErrCodeConfirmationRequired, http.StatusBadRequest},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_WINDOW", ErrCodeValidationRange},
		{"IMPORT_IN_PROGRESS", ErrCodeImportInProgress},
		{"REFERENCE_PREPASS_FAILED", ErrCodeImportPrepass},
		{"CLEAR_DATA_PARTIAL_FAILURE", ErrCodeClearDataPartial},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestMappedCodesHaveStatus(t *testing.T) {
	for domainCode, code := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "%s maps to %s which has no HTTP status", domainCode, code)
		assert.True(t, strings.HasPrefix(code, "ERR_"))
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Client not found", "req-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.Success)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, ErrCodeNotFound, decoded.Error.Code)
	assert.Equal(t, "req-123", decoded.Error.RequestID)
	assert.Nil(t, decoded.Data)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "window", Message: "Must be one of: 0 7 30"},
	})

	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "window", resp.Error.Details[0].Field)
}

func TestNewListResponse(t *testing.T) {
	resp := NewListResponse([]string{"a"}, 1, 20)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}

func TestNewImportResponse(t *testing.T) {
	runID := uuid.New()
	resp := NewImportResponse(&importapp.ImportResult{
		RunID:        runID,
		Imported:     8,
		Errors:       2,
		Total:        10,
		SalesCreated: 5,
	})

	assert.Equal(t, runID.String(), resp.RunID)
	assert.Equal(t, 8, resp.Imported)
	assert.Equal(t, 2, resp.Errors)
	assert.Equal(t, 10, resp.Total)
	assert.Equal(t, 5, resp.SalesCreated)
}

func TestNewProgressResponse(t *testing.T) {
	t.Run("nil snapshot is idle", func(t *testing.T) {
		resp := NewProgressResponse(nil)
		assert.Equal(t, sheetimport.StateIdle, resp.State)
		assert.Zero(t, resp.Percent)
	})

	t.Run("uploading snapshot carries percent", func(t *testing.T) {
		resp := NewProgressResponse(&sheetimport.Progress{State: sheetimport.StateUploading, Current: 1, Total: 4})
		assert.Equal(t, 25, resp.Percent)

		data, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"state":"uploading"`)
		assert.Contains(t, string(data), `"percent":25`)
	})
}

func TestNewImportHistoryResponse(t *testing.T) {
	h, err := bulk.NewImportHistory("clientes.xlsx", 2048)
	require.NoError(t, err)

	running := NewImportHistoryResponse(h)
	assert.Equal(t, "processing", running.Status)
	assert.Zero(t, running.DurationMs)

	require.NoError(t, h.Complete(3, 2, 1, []bulk.ImportErrorDetail{{Row: 3, Code: "ERR_IMPORT_ROW_FAILED", Message: "boom"}}))
	done := *h.CompletedAt
	h.StartedAt = done.Add(-1500 * time.Millisecond)

	resp := NewImportHistoryResponse(h)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 2, resp.ImportedRows)
	assert.Equal(t, int64(1500), resp.DurationMs)
	assert.Len(t, resp.ErrorDetails, 1)

	list := NewImportHistoryListResponse([]*bulk.ImportHistory{h})
	assert.Len(t, list, 1)
}
