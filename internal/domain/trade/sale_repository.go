package trade

import (
	"context"

	"github.com/google/uuid"
)

// SaleRepository defines the interface for sale persistence.
// withPurchaseCount tells the implementation whether the purchase_count
// column may be read or written.
type SaleRepository interface {
	// FindByClientID returns every sale recorded for the client
	FindByClientID(ctx context.Context, clientID uuid.UUID, withPurchaseCount bool) ([]Sale, error)

	// Create inserts a new sale
	Create(ctx context.Context, sale *Sale, withPurchaseCount bool) error
}

// CapabilityProbe reports which optional columns the sales schema carries
type CapabilityProbe interface {
	SupportsPurchaseCount(ctx context.Context) (bool, error)
}

// StaticCapability is a CapabilityProbe with a fixed answer decided at startup
type StaticCapability bool

// SupportsPurchaseCount implements CapabilityProbe
func (c StaticCapability) SupportsPurchaseCount(context.Context) (bool, error) {
	return bool(c), nil
}
