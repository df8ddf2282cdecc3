package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// PurchaseCountColumn is the optional column added by the second schema version
const PurchaseCountColumn = "purchase_count"

// SaleModel is the persistence model for the Sale ledger entry.
type SaleModel struct {
	BaseModel
	ClientID      *uuid.UUID      `gorm:"type:uuid;index"`
	ClientName    string          `gorm:"type:varchar(200);not null"`
	SaleDate      time.Time       `gorm:"type:date;not null;index"`
	Salesperson   string          `gorm:"type:varchar(100);not null;default:''"`
	ItemQuantity  int             `gorm:"not null;default:0"`
	Value         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AverageTicket decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PurchaseCount *int            `gorm:"column:purchase_count"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale entity.
func (m *SaleModel) ToDomain() *trade.Sale {
	return &trade.Sale{
		BaseEntity:    m.BaseModel.ToDomain(),
		ClientID:      m.ClientID,
		ClientName:    m.ClientName,
		SaleDate:      m.SaleDate,
		Salesperson:   m.Salesperson,
		ItemQuantity:  m.ItemQuantity,
		Value:         m.Value,
		AverageTicket: m.AverageTicket,
		PurchaseCount: m.PurchaseCount,
	}
}

// FromDomain populates the persistence model from a domain Sale entity.
func (m *SaleModel) FromDomain(s *trade.Sale) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.ClientID = s.ClientID
	m.ClientName = s.ClientName
	m.SaleDate = s.SaleDate
	m.Salesperson = s.Salesperson
	m.ItemQuantity = s.ItemQuantity
	m.Value = s.Value
	m.AverageTicket = s.AverageTicket
	m.PurchaseCount = s.PurchaseCount
}

// SaleModelFromDomain creates a new persistence model from a domain Sale entity.
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}
