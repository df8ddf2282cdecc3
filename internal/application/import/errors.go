package importapp

import (
	"errors"

	"github.com/lojacrm/backend/internal/domain/shared"
)

var (
	// ErrRowSkipped marks a row without a usable client name. Nothing is written.
	ErrRowSkipped = errors.New("row skipped: client name is empty")

	// ErrRowFailed wraps a store failure while handling a single row
	ErrRowFailed = errors.New("row failed")

	// ErrReferencePrepassFailed aborts a run before any row is processed
	ErrReferencePrepassFailed = shared.NewDomainError("REFERENCE_PREPASS_FAILED", "Failed to reconcile brands and sizes")

	// ErrImportInProgress is returned when another import is still running
	ErrImportInProgress = shared.NewDomainError("IMPORT_IN_PROGRESS", "Another import is already running")

	// ErrClearDataPartialFailure is returned when at least one table could not be emptied
	ErrClearDataPartialFailure = shared.NewDomainError("CLEAR_DATA_PARTIAL_FAILURE", "Some data could not be removed")
)
