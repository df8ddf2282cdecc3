package partner

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindByTaxID finds a client by exact tax id match
	FindByTaxID(ctx context.Context, taxID string) (*Client, error)

	// FindByName finds the first client with exactly this name
	FindByName(ctx context.Context, name string) (*Client, error)

	// FindWithBirthDate returns every client that has a birth date
	FindWithBirthDate(ctx context.Context) ([]Client, error)

	// Create inserts a new client
	Create(ctx context.Context, client *Client) error

	// UpdateSalesperson updates only the responsible salesperson column
	UpdateSalesperson(ctx context.Context, id uuid.UUID, salesperson string) error

	// Count returns the number of clients
	Count(ctx context.Context) (int64, error)
}
