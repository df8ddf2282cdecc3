package partner

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lojacrm/backend/internal/domain/shared"
)

// Client is a customer of the store.
// TaxID (CPF) is the primary deduplication key; Name is only a best-effort fallback.
type Client struct {
	shared.BaseEntity
	Name        string
	TaxID       *string
	Phone1      string
	Phone2      string
	Phone3      string
	Email       string
	BirthDate   *time.Time
	Salesperson string
	Notes       string
}

// NewClient creates a client with the given name
func NewClient(name string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}

	return &Client{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// SetTaxID sets the tax id, clearing it when blank
func (c *Client) SetTaxID(taxID string) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		c.TaxID = nil
		return
	}
	c.TaxID = &taxID
}

// SetBirthDate stores the calendar date of birth without a time component
func (c *Client) SetBirthDate(t *time.Time) {
	if t == nil {
		c.BirthDate = nil
		return
	}
	d := shared.CalendarDate(*t)
	c.BirthDate = &d
}

// AssignSalesperson replaces the responsible salesperson when a new value is given.
// It reports whether the client changed.
func (c *Client) AssignSalesperson(salesperson string) bool {
	salesperson = strings.TrimSpace(salesperson)
	if salesperson == "" || salesperson == c.Salesperson {
		return false
	}
	c.Salesperson = salesperson
	c.Touch()
	return true
}
