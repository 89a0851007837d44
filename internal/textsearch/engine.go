// Package textsearch wraps the external full-text search capability behind a
// narrow interface. The core never inspects how documents are tokenized or
// indexed; it only consumes matching document ids and relevance scores.
package textsearch

import (
	"context"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/pkg/repository"
)

// Match is a single full-text hit with an engine-provided relevance score.
// Higher scores indicate more relevant matches.
type Match struct {
	DocumentID uuid.UUID
	Score      float64
}

// Engine is the full-text search capability. Search returns the ids of
// documents whose content matches the query. The call is bounded and
// synchronous; callers may retry, the engine does not.
type Engine interface {
	Search(ctx context.Context, q repository.Querier, query string) ([]Match, error)
}
