package catalog

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/shared"
)

// MaxBrandNameLength is the longest brand name, in characters
const MaxBrandNameLength = 100

// Brand is a reference row shared across clients, matched by exact name
type Brand struct {
	ID   uuid.UUID
	Name string
}

// NewBrand creates a brand with a generated ID
func NewBrand(name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_BRAND", "Brand name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxBrandNameLength {
		return nil, shared.NewDomainError("INVALID_BRAND", "Brand name cannot exceed 100 characters")
	}
	return &Brand{ID: uuid.New(), Name: name}, nil
}

// BrandRepository defines the interface for brand persistence
type BrandRepository interface {
	// UpsertNames inserts every missing name in one statement and returns how many rows were created.
	// Existing names are left untouched.
	UpsertNames(ctx context.Context, names []string) (int64, error)

	// FindByNames returns the brands whose name is in names
	FindByNames(ctx context.Context, names []string) ([]Brand, error)
}
