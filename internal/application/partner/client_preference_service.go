package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/partner"
	"github.com/lojacrm/backend/internal/domain/shared"
	"github.com/lojacrm/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ClientPreferenceService handles manual edits of a client's preferences.
// Unlike the import path, it replaces the selection instead of merging.
type ClientPreferenceService struct {
	clientRepo partner.ClientRepository
	prefRepo   partner.PreferenceRepository
}

// NewClientPreferenceService creates a new ClientPreferenceService
func NewClientPreferenceService(clientRepo partner.ClientRepository, prefRepo partner.PreferenceRepository) *ClientPreferenceService {
	return &ClientPreferenceService{
		clientRepo: clientRepo,
		prefRepo:   prefRepo,
	}
}

// GetClientBrands returns the brands linked to a client
func (s *ClientPreferenceService) GetClientBrands(ctx context.Context, clientID uuid.UUID) (*ClientBrandsResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}

	ids, err := s.prefRepo.BrandIDsForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return &ClientBrandsResponse{ClientID: clientID, BrandIDs: ids}, nil
}

// ReplaceClientBrands deletes every brand link of the client and inserts
// the given selection.
func (s *ClientPreferenceService) ReplaceClientBrands(ctx context.Context, clientID uuid.UUID, req ReplaceBrandsRequest) (*ClientBrandsResponse, error) {
	brandIDs := make([]uuid.UUID, 0, len(req.BrandIDs))
	seen := make(map[uuid.UUID]struct{}, len(req.BrandIDs))
	for _, raw := range req.BrandIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid brand id: "+raw)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		brandIDs = append(brandIDs, id)
	}

	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}

	if err := s.prefRepo.ReplaceBrands(ctx, clientID, brandIDs); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("client brands replaced",
		zap.String("client_id", clientID.String()), zap.Int("brands", len(brandIDs)))

	return &ClientBrandsResponse{ClientID: clientID, BrandIDs: brandIDs}, nil
}
