package attachments

import (
	"errors"
	"net/http"

	"github.com/mwhite-io/docsearch/pkg/pagination"
	"github.com/mwhite-io/docsearch/pkg/query"
)

// Domain errors for attachment operations.
var (
	ErrNotFound      = errors.New("attachment not found")
	ErrDuplicate     = errors.New("attachment already exists")
	ErrEmptyFilename = errors.New("attachment filename is required")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyFilename),
		errors.Is(err, query.ErrInvalidOrderingField),
		errors.Is(err, pagination.ErrInvalidPage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
