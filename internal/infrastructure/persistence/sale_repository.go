package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/trade"
	"github.com/lojacrm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM.
// The purchase_count column only exists from the second schema version on,
// so every statement leaves it out unless the caller says it is there.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByClientID returns every sale recorded for the client, oldest first
func (r *GormSaleRepository) FindByClientID(ctx context.Context, clientID uuid.UUID, withPurchaseCount bool) ([]trade.Sale, error) {
	query := r.db.WithContext(ctx).Where("client_id = ?", clientID)
	if !withPurchaseCount {
		query = query.Omit(models.PurchaseCountColumn)
	}

	var saleModels []models.SaleModel
	if err := query.Order("sale_date ASC, created_at ASC").Find(&saleModels).Error; err != nil {
		return nil, err
	}

	sales := make([]trade.Sale, len(saleModels))
	for i, model := range saleModels {
		sales[i] = *model.ToDomain()
	}
	return sales, nil
}

// Create inserts a new sale
func (r *GormSaleRepository) Create(ctx context.Context, sale *trade.Sale, withPurchaseCount bool) error {
	model := models.SaleModelFromDomain(sale)
	query := r.db.WithContext(ctx)
	if !withPurchaseCount {
		query = query.Omit(models.PurchaseCountColumn)
	}
	return query.Create(model).Error
}

// Ensure GormSaleRepository implements SaleRepository
var _ trade.SaleRepository = (*GormSaleRepository)(nil)
