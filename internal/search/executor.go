// Package search executes the query pipeline: scope resolution, full-text
// candidate selection, metadata filtering, ranking, ordering, pagination,
// and hydration. A single read transaction spans the whole pipeline so the
// reported counts and the returned page observe one consistent snapshot.
package search

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/internal/config"
	"github.com/mwhite-io/docsearch/internal/filter"
	"github.com/mwhite-io/docsearch/internal/rank"
	"github.com/mwhite-io/docsearch/internal/textsearch"
	"github.com/mwhite-io/docsearch/pkg/pagination"
	"github.com/mwhite-io/docsearch/pkg/query"
	"github.com/mwhite-io/docsearch/pkg/repository"
)

// Scope is the set of documents a search considers before filtering: all
// documents, or the union of one or more indexes.
type Scope struct {
	indexIDs []uuid.UUID
}

// AllDocuments returns the unrestricted scope.
func AllDocuments() Scope {
	return Scope{}
}

// Indexes returns a scope restricted to documents belonging to any of the
// given indexes.
func Indexes(ids ...uuid.UUID) Scope {
	return Scope{indexIDs: ids}
}

func (s Scope) all() bool {
	return len(s.indexIDs) == 0
}

// candidate is one document flowing through the pipeline.
type candidate struct {
	id         uuid.UUID
	identifier *string
	content    string
	score      *float64
}

// Executor runs search requests against the entity store and the external
// text-search engine.
type Executor struct {
	db         *sql.DB
	engine     textsearch.Engine
	logger     *slog.Logger
	search     config.SearchConfig
	pagination pagination.Config
}

// NewExecutor creates a search executor.
func NewExecutor(
	db *sql.DB,
	engine textsearch.Engine,
	logger *slog.Logger,
	search config.SearchConfig,
	pag pagination.Config,
) *Executor {
	return &Executor{
		db:         db,
		engine:     engine,
		logger:     logger.With("system", "search"),
		search:     search,
		pagination: pag,
	}
}

// request is a compiled, validated search request. term is the search term
// as received; query is what actually reaches the engine, empty when the
// request degrades to a full listing.
type request struct {
	term        string
	query       string
	strategy    rank.Strategy
	ordering    []query.SortField
	rawOrdering []string
	expr        filter.Expression
	page        int
}

func (req request) scored() bool {
	return req.strategy.Scored(req.query)
}

// reportedRanking is the ranking named in the response payload: the applied
// strategy, or "none" when no scores were produced. Empty without a search
// term.
func (req request) reportedRanking() string {
	if req.term == "" {
		return ""
	}
	if !req.scored() {
		return string(rank.None)
	}
	return string(req.strategy)
}

// parseRequest validates and compiles the raw query parameters.
func (e *Executor) parseRequest(params url.Values) (request, error) {
	req := request{term: strings.TrimSpace(params.Get("q"))}

	strategy, err := rank.Parse(params.Get("ranking"), e.search.DefaultRanking)
	if err != nil {
		return request{}, err
	}
	req.strategy = strategy

	req.ordering, err = query.ParseOrdering(params["ordering"], documentOrderFields)
	if err != nil {
		return request{}, err
	}
	req.rawOrdering = orderingParams(params)

	req.expr, err = filter.Compile(params)
	if err != nil {
		return request{}, err
	}

	req.page, err = pagination.ParsePage(params)
	if err != nil {
		return request{}, err
	}

	// A bare wildcard matches the whole scope without engine involvement.
	req.query = req.term
	if req.query == "*" {
		if !e.search.AllowWildcard {
			return request{}, ErrWildcardDisabled
		}
		req.query = ""
	}
	return req, nil
}

// evaluate runs the in-process pipeline stages over loaded candidates:
// metadata filtering, scoring, and ordering. Candidates are mutated in place
// and the survivors returned in final order.
func (e *Executor) evaluate(req request, cands []candidate, metadata map[uuid.UUID]map[string]string) []candidate {
	if !req.expr.IsEmpty() {
		filtered := cands[:0]
		for _, c := range cands {
			if req.expr.Match(metadata[c.id]) {
				filtered = append(filtered, c)
			}
		}
		cands = filtered
	}

	scored := req.scored()
	switch {
	case !scored:
		for i := range cands {
			cands[i].score = nil
		}
	case req.strategy == rank.Simple:
		for i := range cands {
			s := rank.Score(req.query, cands[i].content)
			cands[i].score = &s
		}
	}

	sortCandidates(cands, req.ordering, scored)
	return cands
}

// buildResult assembles the response envelope; Documents is left empty for
// the caller to fill with the hydrated page.
func (e *Executor) buildResult(req request, documentCount, filteredCount int) *Result {
	return &Result{
		DocumentCount: documentCount,
		Documents:     []Document{},
		FilteredCount: filteredCount,
		Filters:       req.expr.Filters(),
		Ordering:      req.rawOrdering,
		Ranking:       req.reportedRanking(),
		SearchTerm:    req.term,
		Page:          req.page,
		Pages:         pagination.PageCount(filteredCount, e.pagination.PageSize),
	}
}

// Search compiles the request parameters and runs the full pipeline over the
// given scope.
func (e *Executor) Search(ctx context.Context, scope Scope, params url.Values) (*Result, error) {
	req, err := e.parseRequest(params)
	if err != nil {
		return nil, err
	}

	tx, err := e.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin search transaction: %w", err)
	}
	defer tx.Rollback()

	documentCount, err := e.scopeCount(ctx, tx, scope)
	if err != nil {
		return nil, err
	}

	cands, err := e.loadCandidates(ctx, tx, scope, req)
	if err != nil {
		return nil, err
	}

	metadata, err := e.loadMetadata(ctx, tx, candidateIDs(cands))
	if err != nil {
		return nil, err
	}

	cands = e.evaluate(req, cands, metadata)

	result := e.buildResult(req, documentCount, len(cands))

	pageItems := pagination.Slice(cands, req.page, e.pagination.PageSize)
	result.Documents, err = e.hydrate(ctx, tx, pageItems, metadata)
	if err != nil {
		return nil, err
	}

	e.logger.Debug(
		"search executed",
		"term", req.term,
		"document_count", documentCount,
		"filtered_count", result.FilteredCount,
		"page", req.page,
	)
	return result, nil
}

func (e *Executor) loadCandidates(ctx context.Context, tx *sql.Tx, scope Scope, req request) ([]candidate, error) {
	if req.query != "" {
		return e.loadMatches(ctx, tx, scope, req.query)
	}
	return e.loadScope(ctx, tx, scope)
}

func (e *Executor) scopeCount(ctx context.Context, tx *sql.Tx, scope Scope) (int, error) {
	q := `SELECT COUNT(*) FROM public.documents`
	args := []any{}
	if !scope.all() {
		var placeholders string
		placeholders, args = uuidArgs(scope.indexIDs, 1)
		q = fmt.Sprintf(
			`SELECT COUNT(DISTINCT document_id) FROM public.index_documents WHERE index_id IN (%s)`,
			placeholders,
		)
	}

	var count int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count scope: %w", err)
	}
	return count, nil
}

func (e *Executor) loadScope(ctx context.Context, tx *sql.Tx, scope Scope) ([]candidate, error) {
	q := `SELECT d.id, d.identifier, d.content FROM public.documents d`
	args := []any{}
	if !scope.all() {
		var placeholders string
		placeholders, args = uuidArgs(scope.indexIDs, 1)
		q = fmt.Sprintf(
			`SELECT DISTINCT d.id, d.identifier, d.content
			FROM public.documents d
			JOIN public.index_documents xd ON xd.document_id = d.id
			WHERE xd.index_id IN (%s)`,
			placeholders,
		)
	}

	cands, err := repository.QueryMany(ctx, tx, q, args, scanCandidate)
	if err != nil {
		return nil, fmt.Errorf("load scope: %w", err)
	}
	return cands, nil
}

func (e *Executor) loadMatches(ctx context.Context, tx *sql.Tx, scope Scope, q string) ([]candidate, error) {
	matches, err := e.engine.Search(ctx, tx, q)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	scores := make(map[uuid.UUID]float64, len(matches))
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		scores[m.DocumentID] = m.Score
		ids = append(ids, m.DocumentID)
	}

	if !scope.all() {
		member, err := e.scopeMembers(ctx, tx, scope)
		if err != nil {
			return nil, err
		}
		scoped := ids[:0]
		for _, id := range ids {
			if member[id] {
				scoped = append(scoped, id)
			}
		}
		ids = scoped
		if len(ids) == 0 {
			return nil, nil
		}
	}

	placeholders, args := uuidArgs(ids, 1)
	sel := fmt.Sprintf(
		`SELECT d.id, d.identifier, d.content FROM public.documents d WHERE d.id IN (%s)`,
		placeholders,
	)

	cands, err := repository.QueryMany(ctx, tx, sel, args, scanCandidate)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}

	for i := range cands {
		if s, ok := scores[cands[i].id]; ok {
			score := s
			cands[i].score = &score
		}
	}
	return cands, nil
}

func (e *Executor) scopeMembers(ctx context.Context, tx *sql.Tx, scope Scope) (map[uuid.UUID]bool, error) {
	placeholders, args := uuidArgs(scope.indexIDs, 1)
	q := fmt.Sprintf(
		`SELECT DISTINCT document_id FROM public.index_documents WHERE index_id IN (%s)`,
		placeholders,
	)

	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("load scope members: %w", err)
	}
	defer rows.Close()

	members := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		members[id] = true
	}
	return members, rows.Err()
}

func (e *Executor) loadMetadata(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) (map[uuid.UUID]map[string]string, error) {
	metadata := make(map[uuid.UUID]map[string]string, len(ids))
	if len(ids) == 0 {
		return metadata, nil
	}

	placeholders, args := uuidArgs(ids, 1)
	q := fmt.Sprintf(
		`SELECT document_id, key, value FROM public.metadata WHERE document_id IN (%s)`,
		placeholders,
	)

	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         uuid.UUID
			key, value string
		)
		if err := rows.Scan(&id, &key, &value); err != nil {
			return nil, err
		}
		if metadata[id] == nil {
			metadata[id] = make(map[string]string)
		}
		metadata[id][key] = value
	}
	return metadata, rows.Err()
}

func (e *Executor) hydrate(ctx context.Context, tx *sql.Tx, cands []candidate, metadata map[uuid.UUID]map[string]string) ([]Document, error) {
	docs := make([]Document, 0, len(cands))
	if len(cands) == 0 {
		return docs, nil
	}

	ids := candidateIDs(cands)
	indexes, err := e.loadIndexNames(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	attachments, err := e.loadAttachments(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	for _, c := range cands {
		meta := metadata[c.id]
		if meta == nil {
			meta = map[string]string{}
		}

		doc := Document{
			ID:          c.id,
			Identifier:  c.identifier,
			Content:     c.content,
			Metadata:    meta,
			Indexes:     indexes[c.id],
			Attachments: attachments[c.id],
			Score:       c.score,
		}
		if doc.Indexes == nil {
			doc.Indexes = []string{}
		}
		if doc.Attachments == nil {
			doc.Attachments = []AttachmentSummary{}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (e *Executor) loadIndexNames(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) (map[uuid.UUID][]string, error) {
	placeholders, args := uuidArgs(ids, 1)
	q := fmt.Sprintf(
		`SELECT xd.document_id, i.name
		FROM public.index_documents xd
		JOIN public.indexes i ON i.id = xd.index_id
		WHERE xd.document_id IN (%s)
		ORDER BY i.name`,
		placeholders,
	)

	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("load index names: %w", err)
	}
	defer rows.Close()

	names := make(map[uuid.UUID][]string)
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = append(names[id], name)
	}
	return names, rows.Err()
}

func (e *Executor) loadAttachments(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) (map[uuid.UUID][]AttachmentSummary, error) {
	placeholders, args := uuidArgs(ids, 1)
	q := fmt.Sprintf(
		`SELECT document_id, filename, mimetype, content_hash, byte_length, created_at
		FROM public.attachments
		WHERE document_id IN (%s)
		ORDER BY filename`,
		placeholders,
	)

	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("load attachments: %w", err)
	}
	defer rows.Close()

	summaries := make(map[uuid.UUID][]AttachmentSummary)
	for rows.Next() {
		var (
			id uuid.UUID
			s  AttachmentSummary
		)
		if err := rows.Scan(&id, &s.Filename, &s.Mimetype, &s.Hash, &s.ByteLength, &s.Timestamp); err != nil {
			return nil, err
		}
		summaries[id] = append(summaries[id], s)
	}
	return summaries, rows.Err()
}

func scanCandidate(s repository.Scanner) (candidate, error) {
	var (
		c          candidate
		identifier sql.NullString
	)
	err := s.Scan(&c.id, &identifier, &c.content)
	if identifier.Valid {
		c.identifier = &identifier.String
	}
	return c, err
}

func candidateIDs(cands []candidate) []uuid.UUID {
	ids := make([]uuid.UUID, len(cands))
	for i, c := range cands {
		ids[i] = c.id
	}
	return ids
}

// uuidArgs expands ids into numbered placeholders starting at start.
func uuidArgs(ids []uuid.UUID, start int) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", start+i)
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}

// orderingParams returns the raw ordering values for the response payload.
func orderingParams(params url.Values) []string {
	values := append([]string(nil), params["ordering"]...)
	if values == nil {
		values = []string{}
	}
	return values
}
