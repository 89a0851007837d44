package search

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/pkg/pagination"
)

// AttachmentHit is one attachment in a cross-document attachment search.
// Identifier and Score come from the owning document; Data is the download
// path for the stored bytes.
type AttachmentHit struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	Identifier *string   `json:"identifier"`
	Filename   string    `json:"filename"`
	Hash       string    `json:"hash"`
	Mimetype   string    `json:"mimetype"`
	ByteLength int64     `json:"data_length"`
	Timestamp  time.Time `json:"timestamp"`
	Score      *float64  `json:"score,omitempty"`
	Data       string    `json:"data"`
}

// AttachmentResult is the payload of an attachment search. AttachmentCount
// is the total number of stored attachments, before scoping and filtering.
type AttachmentResult struct {
	AttachmentCount int                 `json:"attachment_count"`
	Attachments     []AttachmentHit     `json:"attachments"`
	Filters         map[string][]string `json:"filters"`
	Ordering        []string            `json:"ordering"`
	Ranking         string              `json:"ranking,omitempty"`
	SearchTerm      string              `json:"search_term,omitempty"`
	Page            int                 `json:"page"`
	Pages           int                 `json:"pages"`
}

// SearchAttachments runs the document pipeline over the given scope and
// returns the attachments of the matching documents, flattened in document
// order. Pagination applies to the flattened attachment list, not to the
// documents.
func (e *Executor) SearchAttachments(ctx context.Context, scope Scope, params url.Values) (*AttachmentResult, error) {
	req, err := e.parseRequest(params)
	if err != nil {
		return nil, err
	}

	tx, err := e.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin search transaction: %w", err)
	}
	defer tx.Rollback()

	attachmentCount, err := e.attachmentCount(ctx, tx)
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

	hits, err := e.loadAttachmentHits(ctx, tx, cands)
	if err != nil {
		return nil, err
	}

	result := &AttachmentResult{
		AttachmentCount: attachmentCount,
		Attachments:     pagination.Slice(hits, req.page, e.pagination.PageSize),
		Filters:         req.expr.Filters(),
		Ordering:        req.rawOrdering,
		Ranking:         req.reportedRanking(),
		SearchTerm:      req.term,
		Page:            req.page,
		Pages:           pagination.PageCount(len(hits), e.pagination.PageSize),
	}

	e.logger.Debug(
		"attachment search executed",
		"term", req.term,
		"attachment_count", attachmentCount,
		"hits", len(hits),
		"page", req.page,
	)
	return result, nil
}

func (e *Executor) attachmentCount(ctx context.Context, tx *sql.Tx) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM public.attachments`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count attachments: %w", err)
	}
	return count, nil
}

// loadAttachmentHits flattens the attachment rows of the given candidates,
// preserving candidate order; within a document, attachments sort by
// filename.
func (e *Executor) loadAttachmentHits(ctx context.Context, tx *sql.Tx, cands []candidate) ([]AttachmentHit, error) {
	hits := make([]AttachmentHit, 0, len(cands))
	if len(cands) == 0 {
		return hits, nil
	}

	placeholders, args := uuidArgs(candidateIDs(cands), 1)
	q := fmt.Sprintf(
		`SELECT id, document_id, filename, content_hash, mimetype, byte_length, created_at
		FROM public.attachments
		WHERE document_id IN (%s)
		ORDER BY filename`,
		placeholders,
	)

	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("load attachment hits: %w", err)
	}
	defer rows.Close()

	byDocument := make(map[uuid.UUID][]AttachmentHit)
	for rows.Next() {
		var hit AttachmentHit
		err := rows.Scan(
			&hit.ID,
			&hit.DocumentID,
			&hit.Filename,
			&hit.Hash,
			&hit.Mimetype,
			&hit.ByteLength,
			&hit.Timestamp,
		)
		if err != nil {
			return nil, err
		}
		byDocument[hit.DocumentID] = append(byDocument[hit.DocumentID], hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range cands {
		for _, hit := range byDocument[c.id] {
			hit.Identifier = c.identifier
			hit.Score = c.score
			hit.Data = fmt.Sprintf("/documents/%s/attachments/%s/download", hit.DocumentID, url.PathEscape(hit.Filename))
			hits = append(hits, hit)
		}
	}
	return hits, nil
}
