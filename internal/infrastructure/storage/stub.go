package storage

import (
	"context"

	"github.com/google/uuid"
	importapp "github.com/lojacrm/backend/internal/application/import"
)

// NopArchive is used when archiving is disabled. It keeps nothing and returns an empty key.
type NopArchive struct{}

// Ensure NopArchive implements UploadArchive
var _ importapp.UploadArchive = NopArchive{}

// Store implements UploadArchive
func (NopArchive) Store(context.Context, uuid.UUID, string, []byte) (string, error) {
	return "", nil
}
