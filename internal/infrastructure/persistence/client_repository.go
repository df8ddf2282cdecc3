package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/partner"
	"github.com/lojacrm/backend/internal/domain/shared"
	"github.com/lojacrm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByTaxID finds a client by exact tax id match
func (r *GormClientRepository) FindByTaxID(ctx context.Context, taxID string) (*partner.Client, error) {
	return r.first(r.db.WithContext(ctx).Where("tax_id = ?", taxID))
}

// FindByName finds the oldest client registered with exactly this name
func (r *GormClientRepository) FindByName(ctx context.Context, name string) (*partner.Client, error) {
	return r.first(r.db.WithContext(ctx).Where("name = ?", name).Order("created_at ASC"))
}

func (r *GormClientRepository) first(query *gorm.DB) (*partner.Client, error) {
	var model models.ClientModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindWithBirthDate returns every client that has a birth date
func (r *GormClientRepository) FindWithBirthDate(ctx context.Context) ([]partner.Client, error) {
	var clientModels []models.ClientModel
	if err := r.db.WithContext(ctx).
		Where("birth_date IS NOT NULL").
		Order("name ASC").
		Find(&clientModels).Error; err != nil {
		return nil, err
	}

	clients := make([]partner.Client, len(clientModels))
	for i, model := range clientModels {
		clients[i] = *model.ToDomain()
	}
	return clients, nil
}

// Create inserts a new client
func (r *GormClientRepository) Create(ctx context.Context, client *partner.Client) error {
	model := models.ClientModelFromDomain(client)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateSalesperson updates only the responsible salesperson column
func (r *GormClientRepository) UpdateSalesperson(ctx context.Context, id uuid.UUID, salesperson string) error {
	result := r.db.WithContext(ctx).
		Model(&models.ClientModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"salesperson": salesperson,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the number of clients
func (r *GormClientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ClientModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormClientRepository implements ClientRepository
var _ partner.ClientRepository = (*GormClientRepository)(nil)
