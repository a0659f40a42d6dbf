package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Upstream I/O sentinel values
var (
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrBlobStore          = errors.New("blob store operation failed")
)

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	// Check for common database errors and provide more specific messages
	if cause != nil {
		errStr := cause.Error()
		switch {
		case strings.Contains(errStr, "duplicate key"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "record not found"):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        fmt.Errorf("%s %w", entity, ErrNotFound),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

// NewBlobStoreError creates a new error for a failed blob-store call.
// Blob keys are opaque and server-generated, so including the key in the
// details is safe and helps later reconciliation of orphaned blobs.
func NewBlobStoreError(operation, key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrBlobStore,
		Details:    fmt.Sprintf("Failed to %s blob %s", operation, key),
		Cause:      cause,
	}
}

func IsUpstreamIO(err error) bool {
	return errors.Is(err, ErrDatabaseQuery) ||
		errors.Is(err, ErrDatabaseConnection) ||
		errors.Is(err, ErrBlobStore)
}
