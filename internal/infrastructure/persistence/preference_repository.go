package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/partner"
	"github.com/lojacrm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPreferenceRepository implements PreferenceRepository using GORM
type GormPreferenceRepository struct {
	db *gorm.DB
}

// NewGormPreferenceRepository creates a new GormPreferenceRepository
func NewGormPreferenceRepository(db *gorm.DB) *GormPreferenceRepository {
	return &GormPreferenceRepository{db: db}
}

// LinkBrands inserts the pairs in one statement, ignoring pairs that already exist
func (r *GormPreferenceRepository) LinkBrands(ctx context.Context, links []partner.ClientBrandPreference) error {
	if len(links) == 0 {
		return nil
	}
	rows := make([]models.ClientBrandPreferenceModel, len(links))
	for i, l := range links {
		rows[i] = models.ClientBrandPreferenceModel{ClientID: l.ClientID, BrandID: l.BrandID}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// LinkSizes inserts the pairs in one statement, ignoring pairs that already exist
func (r *GormPreferenceRepository) LinkSizes(ctx context.Context, links []partner.ClientSizePreference) error {
	if len(links) == 0 {
		return nil
	}
	rows := make([]models.ClientSizePreferenceModel, len(links))
	for i, l := range links {
		rows[i] = models.ClientSizePreferenceModel{ClientID: l.ClientID, SizeID: l.SizeID}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// BrandIDsForClient lists the brand ids linked to a client
func (r *GormPreferenceRepository) BrandIDsForClient(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.ClientBrandPreferenceModel{}).
		Where("client_id = ?", clientID).
		Pluck("brand_id", &ids).Error; err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}

// ReplaceBrands deletes every brand link of the client and inserts the given ones.
// Both steps run in one transaction.
func (r *GormPreferenceRepository) ReplaceBrands(ctx context.Context, clientID uuid.UUID, brandIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", clientID).
			Delete(&models.ClientBrandPreferenceModel{}).Error; err != nil {
			return err
		}
		if len(brandIDs) == 0 {
			return nil
		}
		rows := make([]models.ClientBrandPreferenceModel, len(brandIDs))
		for i, id := range brandIDs {
			rows[i] = models.ClientBrandPreferenceModel{ClientID: clientID, BrandID: id}
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
}

// Ensure GormPreferenceRepository implements PreferenceRepository
var _ partner.PreferenceRepository = (*GormPreferenceRepository)(nil)
