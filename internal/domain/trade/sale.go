package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Sale is an append-only ledger entry. ClientName is a denormalized copy that
// survives deletion of the client.
type Sale struct {
	shared.BaseEntity
	ClientID      *uuid.UUID
	ClientName    string
	SaleDate      time.Time
	Salesperson   string
	ItemQuantity  int
	Value         decimal.Decimal
	AverageTicket decimal.Decimal
	PurchaseCount *int
}

// NewSale creates a sale for a client
func NewSale(clientID uuid.UUID, clientName string, saleDate time.Time, value decimal.Decimal) (*Sale, error) {
	if !value.IsPositive() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Sale value must be positive")
	}
	if saleDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Sale date is required")
	}

	id := clientID
	return &Sale{
		BaseEntity:    shared.NewBaseEntity(),
		ClientID:      &id,
		ClientName:    clientName,
		SaleDate:      saleDate,
		Value:         value.Round(2),
		AverageTicket: value.Round(2),
	}, nil
}

// SetPurchaseCount records how many purchases the value covers and
// derives the average ticket from it.
func (s *Sale) SetPurchaseCount(count int) error {
	if count <= 0 {
		return shared.NewDomainError("INVALID_PURCHASE_COUNT", "Purchase count must be positive")
	}
	s.AverageTicket = s.Value.Div(decimal.NewFromInt(int64(count))).Round(2)
	s.PurchaseCount = &count
	return nil
}

// Purchases returns the recorded purchase count, 0 when unknown
func (s *Sale) Purchases() int {
	if s.PurchaseCount == nil {
		return 0
	}
	return *s.PurchaseCount
}
