package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Import error codes
const (
	// ErrCodeImportInProgress is used when a second import starts while one is running
	ErrCodeImportInProgress = "ERR_IMPORT_IN_PROGRESS"
	// ErrCodeImportInvalidFile covers unreadable, empty or unsupported uploads
	ErrCodeImportInvalidFile = "ERR_IMPORT_INVALID_FILE"
	// ErrCodeImportPrepass is used when brands and sizes could not be reconciled
	ErrCodeImportPrepass = "ERR_IMPORT_REFERENCE_PREPASS"
	// ErrCodeImportCancelled is used when the client went away mid-run
	ErrCodeImportCancelled = "ERR_IMPORT_CANCELLED"
	// ErrCodeClearDataPartial is used when some tables could not be purged
	ErrCodeClearDataPartial = "ERR_CLEAR_DATA_PARTIAL"
	// ErrCodeConfirmationRequired guards destructive endpoints
	ErrCodeConfirmationRequired = "ERR_CONFIRMATION_REQUIRED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeImportInProgress:     http.StatusConflict,
	ErrCodeImportInvalidFile:    http.StatusUnprocessableEntity,
	ErrCodeImportPrepass:        http.StatusInternalServerError,
	ErrCodeImportCancelled:      http.StatusRequestTimeout,
	ErrCodeClearDataPartial:     http.StatusInternalServerError,
	ErrCodeConfirmationRequired: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                  ErrCodeNotFound,
	"ALREADY_EXISTS":             ErrCodeAlreadyExists,
	"CONFLICT":                   ErrCodeConflict,
	"INVALID_INPUT":              ErrCodeInvalidInput,
	"INVALID_STATE":              ErrCodeInvalidState,
	"INVALID_WINDOW":             ErrCodeValidationRange,
	"INVALID_NAME":               ErrCodeValidation,
	"INVALID_DATE":               ErrCodeValidationFormat,
	"INVALID_VALUE":              ErrCodeValidation,
	"INVALID_QUANTITY":           ErrCodeValidation,
	"INVALID_PURCHASE_COUNT":     ErrCodeValidation,
	"INVALID_BRAND":              ErrCodeValidation,
	"INVALID_SIZE":               ErrCodeValidation,
	"INVALID_SIZE_TYPE":          ErrCodeValidation,
	"INVALID_FILE_NAME":          ErrCodeImportInvalidFile,
	"INVALID_FILE_SIZE":          ErrCodeImportInvalidFile,
	"IMPORT_IN_PROGRESS":         ErrCodeImportInProgress,
	"REFERENCE_PREPASS_FAILED":   ErrCodeImportPrepass,
	"CLEAR_DATA_PARTIAL_FAILURE": ErrCodeClearDataPartial,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
