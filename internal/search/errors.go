package search

import (
	"errors"
	"net/http"

	"github.com/mwhite-io/docsearch/internal/filter"
	"github.com/mwhite-io/docsearch/internal/rank"
	"github.com/mwhite-io/docsearch/internal/textsearch"
	"github.com/mwhite-io/docsearch/pkg/pagination"
	"github.com/mwhite-io/docsearch/pkg/query"
)

// ErrWildcardDisabled indicates a bare wildcard query on a deployment that
// does not permit them.
var ErrWildcardDisabled = errors.New("wildcard searches are disabled")

// MapHTTPStatus converts search pipeline errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, filter.ErrInvalidOperator),
		errors.Is(err, filter.ErrEmptyValue),
		errors.Is(err, filter.ErrInvalidRegex),
		errors.Is(err, rank.ErrUnknownStrategy),
		errors.Is(err, query.ErrInvalidOrderingField),
		errors.Is(err, pagination.ErrInvalidPage),
		errors.Is(err, ErrWildcardDisabled):
		return http.StatusBadRequest
	case errors.Is(err, textsearch.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
