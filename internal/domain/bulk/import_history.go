package bulk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lojacrm/backend/internal/domain/shared"
)

// ImportStatus represents the status of an import run
type ImportStatus string

const (
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// IsValid checks if the status is valid
func (s ImportStatus) IsValid() bool {
	switch s {
	case ImportStatusProcessing, ImportStatusCompleted, ImportStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed
}

// ImportErrorDetail is a per-row diagnostic kept with the run
type ImportErrorDetail struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ImportHistory records one spreadsheet import run and its outcome
type ImportHistory struct {
	shared.BaseEntity
	FileName     string
	FileSize     int64
	ArchiveKey   string
	Status       ImportStatus
	TotalRows    int
	ImportedRows int
	ErrorRows    int
	Message      string
	ErrorDetails []ImportErrorDetail
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// NewImportHistory starts a new run in the processing state
func NewImportHistory(fileName string, fileSize int64) (*ImportHistory, error) {
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}

	base := shared.NewBaseEntity()
	return &ImportHistory{
		BaseEntity:   base,
		FileName:     fileName,
		FileSize:     fileSize,
		Status:       ImportStatusProcessing,
		ErrorDetails: make([]ImportErrorDetail, 0),
		StartedAt:    base.CreatedAt,
	}, nil
}

// Complete marks the run as finished with the given counts
func (h *ImportHistory) Complete(total, imported, errorRows int, details []ImportErrorDetail) error {
	if h.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete from state: %s", h.Status))
	}

	h.Status = ImportStatusCompleted
	h.TotalRows = total
	h.ImportedRows = imported
	h.ErrorRows = errorRows
	if details != nil {
		h.ErrorDetails = details
	}
	h.finish()
	return nil
}

// Fail marks the run as aborted; counts reached so far are kept
func (h *ImportHistory) Fail(message string, total, imported, errorRows int) error {
	if h.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail from terminal state: %s", h.Status))
	}

	h.Status = ImportStatusFailed
	h.Message = message
	h.TotalRows = total
	h.ImportedRows = imported
	h.ErrorRows = errorRows
	h.finish()
	return nil
}

func (h *ImportHistory) finish() {
	now := time.Now()
	h.CompletedAt = &now
	h.UpdatedAt = now
}

// ErrorDetailsJSON returns the error details as a JSON string
func (h *ImportHistory) ErrorDetailsJSON() (string, error) {
	if len(h.ErrorDetails) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(h.ErrorDetails)
	if err != nil {
		return "", fmt.Errorf("failed to marshal error details: %w", err)
	}
	return string(data), nil
}

// SetErrorDetailsFromJSON parses error details from a JSON string
func (h *ImportHistory) SetErrorDetailsFromJSON(jsonStr string) error {
	if jsonStr == "" || jsonStr == "[]" {
		h.ErrorDetails = make([]ImportErrorDetail, 0)
		return nil
	}
	var details []ImportErrorDetail
	if err := json.Unmarshal([]byte(jsonStr), &details); err != nil {
		return fmt.Errorf("failed to unmarshal error details: %w", err)
	}
	h.ErrorDetails = details
	return nil
}

// Duration returns how long the run took, or has been running
func (h *ImportHistory) Duration() time.Duration {
	if h.CompletedAt == nil {
		return time.Since(h.StartedAt)
	}
	return h.CompletedAt.Sub(h.StartedAt)
}
