package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewStorageWriteError wraps a failed ledger write. The finalization
// transaction has already rolled back when this is returned.
func NewStorageWriteError(message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Storage write failed: " + message,
	}
}

// NewSnapshotPersistError reports a snapshot that could not be written to
// the durable slot. The committed sale is unaffected.
func NewSnapshotPersistError(message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Snapshot persist failed: " + message,
	}
}

// NewRestoreError reports a restore that was rejected or failed. The active
// store is unchanged.
func NewRestoreError(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Restore failed: " + message,
	}
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
