package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/partner"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	BaseModel
	Name        string     `gorm:"type:varchar(200);not null;index"`
	TaxID       *string    `gorm:"type:varchar(20);uniqueIndex:idx_clients_tax_id,where:tax_id IS NOT NULL"`
	Phone1      string     `gorm:"type:varchar(30)"`
	Phone2      string     `gorm:"type:varchar(30)"`
	Phone3      string     `gorm:"type:varchar(30)"`
	Email       string     `gorm:"type:varchar(200)"`
	BirthDate   *time.Time `gorm:"type:date"`
	Salesperson string     `gorm:"type:varchar(100);not null;default:''"`
	Notes       string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		TaxID:       m.TaxID,
		Phone1:      m.Phone1,
		Phone2:      m.Phone2,
		Phone3:      m.Phone3,
		Email:       m.Email,
		BirthDate:   m.BirthDate,
		Salesperson: m.Salesperson,
		Notes:       m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.TaxID = c.TaxID
	m.Phone1 = c.Phone1
	m.Phone2 = c.Phone2
	m.Phone3 = c.Phone3
	m.Email = c.Email
	m.BirthDate = c.BirthDate
	m.Salesperson = c.Salesperson
	m.Notes = c.Notes
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// ClientBrandPreferenceModel links a client to a brand. The pair is the primary key.
type ClientBrandPreferenceModel struct {
	ClientID uuid.UUID `gorm:"type:uuid;primaryKey"`
	BrandID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (ClientBrandPreferenceModel) TableName() string {
	return "client_brand_preferences"
}

// ClientSizePreferenceModel links a client to a size. The pair is the primary key.
type ClientSizePreferenceModel struct {
	ClientID uuid.UUID `gorm:"type:uuid;primaryKey"`
	SizeID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (ClientSizePreferenceModel) TableName() string {
	return "client_size_preferences"
}
