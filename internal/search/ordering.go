package search

import (
	"bytes"
	"slices"
	"strings"

	"github.com/mwhite-io/docsearch/pkg/query"
)

// documentOrderFields is the ordering allow-list for search results.
var documentOrderFields = map[string]string{
	"id":         "id",
	"identifier": "identifier",
	"content":    "content",
	"score":      "score",
}

// sortCandidates orders candidates deterministically. Scored results default
// to score-descending; explicit ordering keys override that while the score
// stays in the payload. An ascending primary-key tie-break is always applied
// last so equal sort keys paginate reproducibly.
func sortCandidates(cands []candidate, ordering []query.SortField, scored bool) {
	keys := ordering
	if len(keys) == 0 && scored {
		keys = []query.SortField{{Field: "score", Descending: true}}
	}

	slices.SortStableFunc(cands, func(a, b candidate) int {
		for _, key := range keys {
			c := compareField(key.Field, a, b)
			if key.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return bytes.Compare(a.id[:], b.id[:])
	})
}

func compareField(field string, a, b candidate) int {
	switch field {
	case "id":
		return bytes.Compare(a.id[:], b.id[:])
	case "identifier":
		return strings.Compare(deref(a.identifier), deref(b.identifier))
	case "content":
		return strings.Compare(a.content, b.content)
	case "score":
		return compareScore(a.score, b.score)
	}
	return 0
}

func compareScore(a, b *float64) int {
	av, bv := 0.0, 0.0
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
