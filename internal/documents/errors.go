package documents

import (
	"errors"
	"net/http"
)

// Domain errors for document operations.
var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicate     = errors.New("document already exists")
	ErrEmptyContent  = errors.New("document content is required")
	ErrNoIndexes     = errors.New("an index or indexes must be specified")
	ErrIndexNotFound = errors.New("index not found")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrIndexNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrNoIndexes):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
