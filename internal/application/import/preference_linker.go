package importapp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/partner"
)

// PreferenceLinker adds brand and size preferences for a client as a set
// union. It never removes existing links.
type PreferenceLinker struct {
	prefRepo partner.PreferenceRepository
}

// NewPreferenceLinker creates a new PreferenceLinker
func NewPreferenceLinker(prefRepo partner.PreferenceRepository) *PreferenceLinker {
	return &PreferenceLinker{prefRepo: prefRepo}
}

// Link maps the row's tokens through the lookup and upserts the pairs.
// Tokens missing from the lookup are ignored.
func (l *PreferenceLinker) Link(ctx context.Context, clientID uuid.UUID, row ClientRow, lookup *ReferenceLookup) error {
	if lookup == nil {
		return nil
	}

	brandIDs := mapTokens(row.Brands, lookup.Brands)
	if len(brandIDs) > 0 {
		links := make([]partner.ClientBrandPreference, len(brandIDs))
		for i, id := range brandIDs {
			links[i] = partner.ClientBrandPreference{ClientID: clientID, BrandID: id}
		}
		if err := l.prefRepo.LinkBrands(ctx, links); err != nil {
			return fmt.Errorf("%w: link brands: %w", ErrRowFailed, err)
		}
	}

	sizeIDs := mapTokens(row.ClothingSizes, lookup.ClothingSizes)
	sizeIDs = appendUnique(sizeIDs, mapTokens(row.ShoeSizes, lookup.ShoeSizes))
	if len(sizeIDs) > 0 {
		links := make([]partner.ClientSizePreference, len(sizeIDs))
		for i, id := range sizeIDs {
			links[i] = partner.ClientSizePreference{ClientID: clientID, SizeID: id}
		}
		if err := l.prefRepo.LinkSizes(ctx, links); err != nil {
			return fmt.Errorf("%w: link sizes: %w", ErrRowFailed, err)
		}
	}

	return nil
}

// mapTokens resolves tokens to distinct ids, dropping unknown tokens
func mapTokens(tokens []string, lookup map[string]uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tokens))
	for _, t := range tokens {
		if id, ok := lookup[t]; ok {
			ids = append(ids, id)
		}
	}
	return appendUnique(nil, ids)
}

func appendUnique(dst, src []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(dst)+len(src))
	for _, id := range dst {
		seen[id] = struct{}{}
	}
	for _, id := range src {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		dst = append(dst, id)
	}
	return dst
}
