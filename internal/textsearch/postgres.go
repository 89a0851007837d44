package textsearch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/pkg/repository"
)

// postgres implements Engine on PostgreSQL's built-in full-text search.
// Document content is indexed through a generated tsvector column; queries
// use websearch syntax (quoted phrases, OR, -exclusion) and ts_rank supplies
// the relevance score.
type postgres struct {
	logger *slog.Logger
}

// NewPostgres creates the PostgreSQL-backed search engine.
func NewPostgres(logger *slog.Logger) Engine {
	return &postgres{logger: logger.With("system", "textsearch")}
}

const searchQuery = `SELECT d.id, ts_rank(d.search, websearch_to_tsquery('english', $1)) AS score
	FROM public.documents d
	WHERE d.search @@ websearch_to_tsquery('english', $1)`

func (p *postgres) Search(ctx context.Context, q repository.Querier, query string) ([]Match, error) {
	matches, err := repository.QueryMany(ctx, q, searchQuery, []any{query}, scanMatch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	p.logger.Debug("full-text search", "query", query, "matches", len(matches))
	return matches, nil
}

func scanMatch(s repository.Scanner) (Match, error) {
	var (
		id    uuid.UUID
		score float64
	)
	err := s.Scan(&id, &score)
	return Match{DocumentID: id, Score: score}, err
}
