package pagination

import (
	"errors"
	"net/url"
	"strconv"
)

// ErrInvalidPage indicates the page parameter could not be parsed as an integer.
var ErrInvalidPage = errors.New("page must be an integer")

// ParsePage extracts the requested page number from URL query values.
// An absent or empty page parameter defaults to page 1. A value that is not
// an integer is a validation failure; out-of-range integers are accepted and
// resolve to an empty page when sliced.
func ParsePage(values url.Values) (int, error) {
	raw := values.Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidPage
	}
	return page, nil
}

// PageCount returns the total number of pages for the given item count.
// An empty result set has zero pages.
func PageCount(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

// Slice returns the requested page of items. Pages outside [1, PageCount]
// yield an empty slice, never an error, so that pagination metadata can
// still be reported against the true total.
func Slice[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		return []T{}
	}
	lo := (page - 1) * pageSize
	if lo >= len(items) {
		return []T{}
	}
	hi := lo + pageSize
	if hi > len(items) {
		hi = len(items)
	}
	return items[lo:hi]
}

// Result holds a page of data along with pagination metadata.
type Result[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// NewResult creates a Result for the given page over a total item count.
func NewResult[T any](items []T, total, page, pageSize int) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items: items,
		Page:  page,
		Pages: PageCount(total, pageSize),
	}
}
