package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOrderingField indicates an ordering key outside the allow-list.
var ErrInvalidOrderingField = errors.New("invalid ordering field")

// SortField is a single ordering key with direction.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseOrdering resolves raw ordering parameters against an allow-list.
// Each value names an exposed field, optionally prefixed with "-" for
// descending order; allowed maps exposed names to internal field names.
// An unrecognized name fails with ErrInvalidOrderingField.
func ParseOrdering(values []string, allowed map[string]string) ([]SortField, error) {
	var fields []SortField
	for _, raw := range values {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(name, "-")

		field, ok := allowed[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidOrderingField, name)
		}
		fields = append(fields, SortField{Field: field, Descending: desc})
	}
	return fields, nil
}
