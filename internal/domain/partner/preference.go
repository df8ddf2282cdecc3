package partner

import (
	"context"

	"github.com/google/uuid"
)

// ClientBrandPreference links a client to a brand it buys
type ClientBrandPreference struct {
	ClientID uuid.UUID
	BrandID  uuid.UUID
}

// ClientSizePreference links a client to a clothing or shoe size
type ClientSizePreference struct {
	ClientID uuid.UUID
	SizeID   uuid.UUID
}

// PreferenceRepository persists client preference links
type PreferenceRepository interface {
	// LinkBrands inserts the pairs, ignoring pairs that already exist
	LinkBrands(ctx context.Context, links []ClientBrandPreference) error

	// LinkSizes inserts the pairs, ignoring pairs that already exist
	LinkSizes(ctx context.Context, links []ClientSizePreference) error

	// BrandIDsForClient lists the brand ids linked to a client
	BrandIDsForClient(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error)

	// ReplaceBrands deletes every brand link of the client and inserts the given ones
	ReplaceBrands(ctx context.Context, clientID uuid.UUID, brandIDs []uuid.UUID) error
}
