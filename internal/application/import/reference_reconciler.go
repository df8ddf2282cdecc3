package importapp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// ReferenceLookup maps canonical tokens to reference ids for one run
type ReferenceLookup struct {
	Brands        map[string]uuid.UUID
	ClothingSizes map[string]uuid.UUID
	ShoeSizes     map[string]uuid.UUID
	Created       int64
}

func newReferenceLookup() *ReferenceLookup {
	return &ReferenceLookup{
		Brands:        make(map[string]uuid.UUID),
		ClothingSizes: make(map[string]uuid.UUID),
		ShoeSizes:     make(map[string]uuid.UUID),
	}
}

// ReferenceReconciler creates missing brands and sizes for a whole sheet
// with one batched write and one batched read per reference type.
type ReferenceReconciler struct {
	brandRepo catalog.BrandRepository
	sizeRepo  catalog.SizeRepository
	logger    *zap.Logger
}

// NewReferenceReconciler creates a new ReferenceReconciler
func NewReferenceReconciler(brandRepo catalog.BrandRepository, sizeRepo catalog.SizeRepository, logger *zap.Logger) *ReferenceReconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceReconciler{
		brandRepo: brandRepo,
		sizeRepo:  sizeRepo,
		logger:    logger,
	}
}

// tokenSet keeps first-seen order while deduplicating
type tokenSet struct {
	order []string
	seen  map[string]struct{}
}

func newTokenSet() *tokenSet {
	return &tokenSet{seen: make(map[string]struct{})}
}

func (s *tokenSet) add(tokens ...string) {
	for _, t := range tokens {
		if _, ok := s.seen[t]; ok {
			continue
		}
		s.seen[t] = struct{}{}
		s.order = append(s.order, t)
	}
}

// Reconcile collects every token of every row and resolves them to ids.
// Any store failure returns ErrReferencePrepassFailed.
func (r *ReferenceReconciler) Reconcile(ctx context.Context, rows []ClientRow) (*ReferenceLookup, error) {
	brands, clothing, shoes := newTokenSet(), newTokenSet(), newTokenSet()
	for i := range rows {
		brands.add(rows[i].Brands...)
		clothing.add(rows[i].ClothingSizes...)
		shoes.add(rows[i].ShoeSizes...)
	}

	lookup := newReferenceLookup()

	if len(brands.order) > 0 {
		created, err := r.brandRepo.UpsertNames(ctx, brands.order)
		if err != nil {
			return nil, fmt.Errorf("%w: upsert brands: %w", ErrReferencePrepassFailed, err)
		}
		found, err := r.brandRepo.FindByNames(ctx, brands.order)
		if err != nil {
			return nil, fmt.Errorf("%w: load brands: %w", ErrReferencePrepassFailed, err)
		}
		for _, b := range found {
			lookup.Brands[b.Name] = b.ID
		}
		lookup.Created += created
	}

	for _, set := range []struct {
		sizeType catalog.SizeType
		tokens   *tokenSet
		into     map[string]uuid.UUID
	}{
		{catalog.SizeTypeClothing, clothing, lookup.ClothingSizes},
		{catalog.SizeTypeShoe, shoes, lookup.ShoeSizes},
	} {
		if len(set.tokens.order) == 0 {
			continue
		}
		created, err := r.sizeRepo.UpsertNames(ctx, set.sizeType, set.tokens.order)
		if err != nil {
			return nil, fmt.Errorf("%w: upsert %s sizes: %w", ErrReferencePrepassFailed, set.sizeType, err)
		}
		found, err := r.sizeRepo.FindByNames(ctx, set.sizeType, set.tokens.order)
		if err != nil {
			return nil, fmt.Errorf("%w: load %s sizes: %w", ErrReferencePrepassFailed, set.sizeType, err)
		}
		for _, s := range found {
			set.into[s.Name] = s.ID
		}
		lookup.Created += created
	}

	r.logger.Debug("reference data reconciled",
		zap.Int("brands", len(lookup.Brands)),
		zap.Int("clothing_sizes", len(lookup.ClothingSizes)),
		zap.Int("shoe_sizes", len(lookup.ShoeSizes)),
		zap.Int64("created", lookup.Created),
	)

	return lookup, nil
}
