package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/catalog"
)

// BrandModel is the persistence model for the Brand reference table.
type BrandModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_brands_name"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BrandModel) TableName() string {
	return "brands"
}

// ToDomain converts the persistence model to a domain Brand
func (m *BrandModel) ToDomain() catalog.Brand {
	return catalog.Brand{ID: m.ID, Name: m.Name}
}

// SizeModel is the persistence model for the Size reference table.
type SizeModel struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name      string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_sizes_name_type,priority:1"`
	Type      catalog.SizeType `gorm:"type:varchar(20);not null;uniqueIndex:idx_sizes_name_type,priority:2"`
	CreatedAt time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SizeModel) TableName() string {
	return "sizes"
}

// ToDomain converts the persistence model to a domain Size
func (m *SizeModel) ToDomain() catalog.Size {
	return catalog.Size{ID: m.ID, Name: m.Name, Type: m.Type}
}
