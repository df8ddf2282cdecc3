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

// GormSizeRepository implements SizeRepository using GORM
type GormSizeRepository struct {
	db *gorm.DB
}

// NewGormSizeRepository creates a new GormSizeRepository
func NewGormSizeRepository(db *gorm.DB) *GormSizeRepository {
	return &GormSizeRepository{db: db}
}

// UpsertNames inserts every missing (name, type) pair in one statement
func (r *GormSizeRepository) UpsertNames(ctx context.Context, sizeType catalog.SizeType, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}
	now := time.Now()
	rows := make([]models.SizeModel, len(names))
	for i, name := range names {
		rows[i] = models.SizeModel{ID: uuid.New(), Name: name, Type: sizeType, CreatedAt: now}
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "type"}},
			DoNothing: true,
		}).
		Create(&rows)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindByNames returns the sizes of sizeType whose name is in names
func (r *GormSizeRepository) FindByNames(ctx context.Context, sizeType catalog.SizeType, names []string) ([]catalog.Size, error) {
	if len(names) == 0 {
		return []catalog.Size{}, nil
	}
	var sizeModels []models.SizeModel
	if err := r.db.WithContext(ctx).
		Where("type = ? AND name IN ?", sizeType, names).
		Find(&sizeModels).Error; err != nil {
		return nil, err
	}

	sizes := make([]catalog.Size, len(sizeModels))
	for i, model := range sizeModels {
		sizes[i] = model.ToDomain()
	}
	return sizes, nil
}

// Ensure GormSizeRepository implements SizeRepository
var _ catalog.SizeRepository = (*GormSizeRepository)(nil)
