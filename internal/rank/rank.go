// Package rank selects and applies a ranking strategy to search candidates.
package rank

import (
	"fmt"
	"strings"
)

// Strategy identifies a ranking strategy.
type Strategy string

// The closed set of ranking strategies.
const (
	// None omits scores entirely; ordering falls back to explicit ordering
	// keys or primary-key order.
	None Strategy = "none"

	// BM25 takes the score directly from the full-text engine. It requires a
	// search query; without one it behaves as None.
	BM25 Strategy = "bm25"

	// Simple computes a local, engine-independent score from query-term
	// overlap. It exists as a fallback when engine-native ranking is
	// unavailable or undesired.
	Simple Strategy = "simple"
)

// Parse resolves a raw ranking parameter, case-insensitively. An empty value
// selects the deployment default.
func Parse(raw, defaultStrategy string) (Strategy, error) {
	if raw == "" {
		raw = defaultStrategy
	}

	switch Strategy(strings.ToLower(raw)) {
	case None:
		return None, nil
	case BM25:
		return BM25, nil
	case Simple:
		return Simple, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStrategy, raw)
	}
}

// Scored reports whether the strategy produces scores for the given query.
// Engine-backed and local ranking both require a non-empty query; None never
// scores.
func (s Strategy) Scored(query string) bool {
	return s != None && query != ""
}
