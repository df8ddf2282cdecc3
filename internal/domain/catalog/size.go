package catalog

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/shared"
)

// MaxSizeNameLength is the longest size name, in characters
const MaxSizeNameLength = 50

// SizeType distinguishes clothing sizes from shoe sizes
type SizeType string

const (
	SizeTypeClothing SizeType = "clothing"
	SizeTypeShoe     SizeType = "shoe"
)

// IsValid checks if the size type is valid
func (t SizeType) IsValid() bool {
	return t == SizeTypeClothing || t == SizeTypeShoe
}

// Size is a clothing or shoe size, unique on (Name, Type)
type Size struct {
	ID   uuid.UUID
	Name string
	Type SizeType
}

// NewSize creates a size with a generated ID
func NewSize(name string, sizeType SizeType) (*Size, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SIZE", "Size name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxSizeNameLength {
		return nil, shared.NewDomainError("INVALID_SIZE", "Size name cannot exceed 50 characters")
	}
	if !sizeType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SIZE_TYPE", "Size type must be clothing or shoe")
	}
	return &Size{ID: uuid.New(), Name: name, Type: sizeType}, nil
}

// SizeRepository defines the interface for size persistence
type SizeRepository interface {
	// UpsertNames inserts every missing (name, sizeType) pair in one statement
	// and returns how many rows were created.
	UpsertNames(ctx context.Context, sizeType SizeType, names []string) (int64, error)

	// FindByNames returns the sizes of sizeType whose name is in names
	FindByNames(ctx context.Context, sizeType SizeType, names []string) ([]Size, error)
}
