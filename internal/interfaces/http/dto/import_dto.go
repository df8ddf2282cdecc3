package dto

import (
	"time"

	importapp "github.com/lojacrm/backend/internal/application/import"
	"github.com/lojacrm/backend/internal/domain/bulk"
	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
)

// ImportResponse is returned once an uploaded sheet has been processed
type ImportResponse struct {
	RunID                 string                 `json:"run_id"`
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

// NewImportResponse converts an import result
func NewImportResponse(r *importapp.ImportResult) ImportResponse {
	return ImportResponse{
		RunID:                 r.RunID.String(),
		Imported:              r.Imported,
		Errors:                r.Errors,
		Total:                 r.Total,
		SalesCreated:          r.SalesCreated,
		ReferencesCreated:     r.ReferencesCreated,
		SupportsPurchaseCount: r.SupportsPurchaseCount,
		ArchiveKey:            r.ArchiveKey,
		RowErrors:             r.RowErrors,
		IsTruncated:           r.IsTruncated,
	}
}

// ProgressResponse is the latest import progress snapshot
type ProgressResponse struct {
	sheetimport.Progress
	Percent int `json:"percent"`
}

// NewProgressResponse wraps a snapshot. A nil snapshot reads as idle.
func NewProgressResponse(p *sheetimport.Progress) ProgressResponse {
	if p == nil {
		return ProgressResponse{Progress: sheetimport.Progress{State: sheetimport.StateIdle}}
	}
	return ProgressResponse{Progress: *p, Percent: p.Percent()}
}

// ImportHistoryListRequest bounds the import history listing
type ImportHistoryListRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ImportHistoryResponse describes one import run
type ImportHistoryResponse struct {
	ID           string                   `json:"id"`
	FileName     string                   `json:"file_name"`
	FileSize     int64                    `json:"file_size"`
	ArchiveKey   string                   `json:"archive_key,omitempty"`
	Status       string                   `json:"status"`
	TotalRows    int                      `json:"total_rows"`
	ImportedRows int                      `json:"imported_rows"`
	ErrorRows    int                      `json:"error_rows"`
	Message      string                   `json:"message,omitempty"`
	ErrorDetails []bulk.ImportErrorDetail `json:"error_details,omitempty"`
	StartedAt    time.Time                `json:"started_at"`
	CompletedAt  *time.Time               `json:"completed_at,omitempty"`
	DurationMs   int64                    `json:"duration_ms,omitempty"`
}

// NewImportHistoryResponse converts a domain import run
func NewImportHistoryResponse(h *bulk.ImportHistory) ImportHistoryResponse {
	resp := ImportHistoryResponse{
		ID:           h.ID.String(),
		FileName:     h.FileName,
		FileSize:     h.FileSize,
		ArchiveKey:   h.ArchiveKey,
		Status:       string(h.Status),
		TotalRows:    h.TotalRows,
		ImportedRows: h.ImportedRows,
		ErrorRows:    h.ErrorRows,
		Message:      h.Message,
		ErrorDetails: h.ErrorDetails,
		StartedAt:    h.StartedAt,
		CompletedAt:  h.CompletedAt,
	}
	if h.CompletedAt != nil {
		resp.DurationMs = h.Duration().Milliseconds()
	}
	return resp
}

// NewImportHistoryListResponse converts a list of import runs
func NewImportHistoryListResponse(histories []*bulk.ImportHistory) []ImportHistoryResponse {
	items := make([]ImportHistoryResponse, 0, len(histories))
	for _, h := range histories {
		items = append(items, NewImportHistoryResponse(h))
	}
	return items
}

// ClearDataRequest must carry confirm=true
type ClearDataRequest struct {
	Confirm bool `form:"confirm"`
}

// BirthdayRequest selects the birthday alert window in days
type BirthdayRequest struct {
	Window *int `form:"window" binding:"omitempty,oneof=0 7 30"`
}
