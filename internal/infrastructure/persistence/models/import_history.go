package models

import (
	"time"

	"github.com/lojacrm/backend/internal/domain/bulk"
)

// ImportHistoryModel is the persistence model for the ImportHistory domain entity.
type ImportHistoryModel struct {
	BaseModel
	FileName     string            `gorm:"type:varchar(255);not null"`
	FileSize     int64             `gorm:"not null;default:0"`
	ArchiveKey   string            `gorm:"type:varchar(512)"`
	Status       bulk.ImportStatus `gorm:"type:varchar(20);not null;default:'processing';index"`
	TotalRows    int               `gorm:"not null;default:0"`
	ImportedRows int               `gorm:"not null;default:0"`
	ErrorRows    int               `gorm:"not null;default:0"`
	Message      string            `gorm:"type:text"`
	ErrorDetails string            `gorm:"type:text;default:'[]'"`
	StartedAt    time.Time         `gorm:"not null;index"`
	CompletedAt  *time.Time
}

// TableName returns the table name for GORM
func (ImportHistoryModel) TableName() string {
	return "import_histories"
}

// ToDomain converts the persistence model to a domain ImportHistory entity.
func (m *ImportHistoryModel) ToDomain() *bulk.ImportHistory {
	history := &bulk.ImportHistory{
		BaseEntity:   m.BaseModel.ToDomain(),
		FileName:     m.FileName,
		FileSize:     m.FileSize,
		ArchiveKey:   m.ArchiveKey,
		Status:       m.Status,
		TotalRows:    m.TotalRows,
		ImportedRows: m.ImportedRows,
		ErrorRows:    m.ErrorRows,
		Message:      m.Message,
		StartedAt:    m.StartedAt,
		CompletedAt:  m.CompletedAt,
	}

	// Parse error details JSON
	if err := history.SetErrorDetailsFromJSON(m.ErrorDetails); err != nil {
		history.ErrorDetails = make([]bulk.ImportErrorDetail, 0)
	}

	return history
}

// FromDomain populates the persistence model from a domain ImportHistory entity.
func (m *ImportHistoryModel) FromDomain(h *bulk.ImportHistory) {
	m.FromDomainBaseEntity(h.BaseEntity)
	m.FileName = h.FileName
	m.FileSize = h.FileSize
	m.ArchiveKey = h.ArchiveKey
	m.Status = h.Status
	m.TotalRows = h.TotalRows
	m.ImportedRows = h.ImportedRows
	m.ErrorRows = h.ErrorRows
	m.Message = h.Message
	m.StartedAt = h.StartedAt
	m.CompletedAt = h.CompletedAt

	// Serialize error details to JSON
	if errorJSON, err := h.ErrorDetailsJSON(); err == nil {
		m.ErrorDetails = errorJSON
	} else {
		m.ErrorDetails = "[]"
	}
}

// ImportHistoryModelFromDomain creates a new persistence model from a domain ImportHistory entity.
func ImportHistoryModelFromDomain(h *bulk.ImportHistory) *ImportHistoryModel {
	m := &ImportHistoryModel{}
	m.FromDomain(h)
	return m
}
