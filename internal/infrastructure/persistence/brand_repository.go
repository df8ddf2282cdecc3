package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/catalog"
	"github.com/lojacrm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBrandRepository implements BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// UpsertNames inserts every missing name in one statement.
// Names already present are skipped by the unique index on name.
func (r *GormBrandRepository) UpsertNames(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}
	now := time.Now()
	rows := make([]models.BrandModel, len(names))
	for i, name := range names {
		rows[i] = models.BrandModel{ID: uuid.New(), Name: name, CreatedAt: now}
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&rows)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindByNames returns the brands whose name is in names
func (r *GormBrandRepository) FindByNames(ctx context.Context, names []string) ([]catalog.Brand, error) {
	if len(names) == 0 {
		return []catalog.Brand{}, nil
	}
	var brandModels []models.BrandModel
	if err := r.db.WithContext(ctx).
		Where("name IN ?", names).
		Find(&brandModels).Error; err != nil {
		return nil, err
	}

	brands := make([]catalog.Brand, len(brandModels))
	for i, model := range brandModels {
		brands[i] = model.ToDomain()
	}
	return brands, nil
}

// Ensure GormBrandRepository implements BrandRepository
var _ catalog.BrandRepository = (*GormBrandRepository)(nil)
