package importapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/partner"
	"github.com/lojacrm/backend/internal/domain/shared"
)

// ClientResolver finds the client a row refers to, or creates it.
// Existing clients only ever get their salesperson updated.
type ClientResolver struct {
	clientRepo partner.ClientRepository
}

// NewClientResolver creates a new ClientResolver
func NewClientResolver(clientRepo partner.ClientRepository) *ClientResolver {
	return &ClientResolver{clientRepo: clientRepo}
}

// Resolve returns the client id for a row. Tax id is matched first, then
// the exact name.
func (r *ClientResolver) Resolve(ctx context.Context, row ClientRow) (uuid.UUID, error) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return uuid.Nil, ErrRowSkipped
	}

	existing, err := r.find(ctx, name, strings.TrimSpace(row.TaxID))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: find client %q: %w", ErrRowFailed, name, err)
	}

	if existing != nil {
		if existing.AssignSalesperson(row.Salesperson) {
			if err := r.clientRepo.UpdateSalesperson(ctx, existing.ID, existing.Salesperson); err != nil {
				return uuid.Nil, fmt.Errorf("%w: update client %q: %w", ErrRowFailed, name, err)
			}
		}
		return existing.ID, nil
	}

	client, err := partner.NewClient(name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrRowFailed, err)
	}
	client.SetTaxID(row.TaxID)
	client.Phone1 = strings.TrimSpace(row.Phone)
	client.SetBirthDate(row.BirthDate)
	client.AssignSalesperson(row.Salesperson)

	if err := r.clientRepo.Create(ctx, client); err != nil {
		return uuid.Nil, fmt.Errorf("%w: create client %q: %w", ErrRowFailed, name, err)
	}
	return client.ID, nil
}

func (r *ClientResolver) find(ctx context.Context, name, taxID string) (*partner.Client, error) {
	if taxID != "" {
		client, err := r.clientRepo.FindByTaxID(ctx, taxID)
		if err == nil {
			return client, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	client, err := r.clientRepo.FindByName(ctx, name)
	if err == nil {
		return client, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}
