package persistence

import (
	"context"
	"fmt"

	importapp "github.com/lojacrm/backend/internal/application/import"
	"gorm.io/gorm"
)

// GormTableTruncater empties the managed CRM tables one at a time
type GormTableTruncater struct {
	db *gorm.DB
}

// NewGormTableTruncater creates a new GormTableTruncater
func NewGormTableTruncater(db *gorm.DB) *GormTableTruncater {
	return &GormTableTruncater{db: db}
}

// DeleteAll removes every row of the table and returns how many were deleted.
// Only tables listed in PurgeOrder are accepted.
func (t *GormTableTruncater) DeleteAll(ctx context.Context, table importapp.PurgeTable) (int64, error) {
	if !isManagedTable(table) {
		return 0, fmt.Errorf("table %q is not managed", table)
	}
	result := t.db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s", string(table)))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func isManagedTable(table importapp.PurgeTable) bool {
	for _, t := range importapp.PurgeOrder {
		if t == table {
			return true
		}
	}
	return false
}

// Ensure GormTableTruncater implements TableTruncater
var _ importapp.TableTruncater = (*GormTableTruncater)(nil)
