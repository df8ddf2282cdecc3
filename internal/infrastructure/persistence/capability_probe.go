package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/lojacrm/backend/internal/domain/trade"
	"github.com/lojacrm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// Purchase count modes accepted by NewPurchaseCountCapability
const (
	PurchaseCountAuto     = "auto"
	PurchaseCountEnabled  = "enabled"
	PurchaseCountDisabled = "disabled"
)

// GormPurchaseCountProbe inspects the sales table once and remembers whether
// the purchase_count column exists. A failed inspection is retried on the next call.
type GormPurchaseCountProbe struct {
	db *gorm.DB

	mu       sync.Mutex
	probed   bool
	supports bool
}

// NewGormPurchaseCountProbe creates a new GormPurchaseCountProbe
func NewGormPurchaseCountProbe(db *gorm.DB) *GormPurchaseCountProbe {
	return &GormPurchaseCountProbe{db: db}
}

// SupportsPurchaseCount implements CapabilityProbe
func (p *GormPurchaseCountProbe) SupportsPurchaseCount(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.probed {
		return p.supports, nil
	}

	migrator := p.db.WithContext(ctx).Migrator()
	if !migrator.HasTable(&models.SaleModel{}) {
		return false, fmt.Errorf("sales table not found")
	}
	p.supports = migrator.HasColumn(&models.SaleModel{}, models.PurchaseCountColumn)
	p.probed = true
	return p.supports, nil
}

// NewPurchaseCountCapability picks the capability source for a configured mode.
// "auto" inspects the schema; "enabled" and "disabled" skip the inspection.
func NewPurchaseCountCapability(db *gorm.DB, mode string) (trade.CapabilityProbe, error) {
	switch mode {
	case PurchaseCountAuto, "":
		return NewGormPurchaseCountProbe(db), nil
	case PurchaseCountEnabled:
		return trade.StaticCapability(true), nil
	case PurchaseCountDisabled:
		return trade.StaticCapability(false), nil
	default:
		return nil, fmt.Errorf("unknown purchase count mode %q", mode)
	}
}

// Ensure GormPurchaseCountProbe implements CapabilityProbe
var _ trade.CapabilityProbe = (*GormPurchaseCountProbe)(nil)
