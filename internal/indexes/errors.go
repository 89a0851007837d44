package indexes

import (
	"errors"
	"net/http"

	"github.com/mwhite-io/docsearch/pkg/pagination"
	"github.com/mwhite-io/docsearch/pkg/query"
)

// Domain errors for index operations.
var (
	ErrNotFound  = errors.New("index not found")
	ErrDuplicate = errors.New("index name already in use")
	ErrEmptyName = errors.New("index name is required")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyName),
		errors.Is(err, query.ErrInvalidOrderingField),
		errors.Is(err, pagination.ErrInvalidPage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
