package bulk

import (
	"context"

	"github.com/google/uuid"
)

// ImportHistoryRepository defines the interface for import run persistence
type ImportHistoryRepository interface {
	// FindByID finds an import run by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ImportHistory, error)

	// FindRecent returns the latest runs, most recent first
	FindRecent(ctx context.Context, limit int) ([]*ImportHistory, error)

	// Save saves an import run (create or update)
	Save(ctx context.Context, history *ImportHistory) error
}
