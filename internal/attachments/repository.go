package attachments

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/internal/storage"
	"github.com/mwhite-io/docsearch/pkg/pagination"
	"github.com/mwhite-io/docsearch/pkg/query"
	"github.com/mwhite-io/docsearch/pkg/repository"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an attachment repository backed by the database and the
// content-addressable blob area.
func New(db *sql.DB, store storage.System, logger *slog.Logger, pag pagination.Config) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "attachments"),
		pagination: pag,
	}
}

func (r *repo) List(ctx context.Context, documentID uuid.UUID, params url.Values) (*ListResult, error) {
	ordering, err := query.ParseOrdering(params["ordering"], orderFields)
	if err != nil {
		return nil, err
	}
	if len(ordering) == 0 {
		ordering = []query.SortField{{Field: "Filename"}}
	}

	page, err := pagination.ParsePage(params)
	if err != nil {
		return nil, err
	}

	qb := query.NewBuilder(projection, "Id").
		WhereEquals("DocumentId", documentID).
		OrderByFields(ordering)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count attachments: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page, r.pagination.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, Scan)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	if items == nil {
		items = []Attachment{}
	}

	rawOrdering := append([]string(nil), params["ordering"]...)
	if rawOrdering == nil {
		rawOrdering = []string{}
	}

	return &ListResult{
		Attachments: items,
		Ordering:    rawOrdering,
		Page:        page,
		Pages:       pagination.PageCount(total, r.pagination.PageSize),
	}, nil
}

func (r *repo) Find(ctx context.Context, documentID uuid.UUID, filename string) (*Attachment, error) {
	q := fmt.Sprintf(
		`SELECT %s FROM %s WHERE a.document_id = $1 AND a.filename = $2`,
		projection.Columns(), projection.Table(),
	)

	att, err := repository.QueryOne(ctx, r.db, q, []any{documentID, filename}, Scan)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &att, nil
}

func (r *repo) Upload(ctx context.Context, documentID uuid.UUID, filename string, data []byte) (*Attachment, error) {
	filename = SanitizeFilename(filename)
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	hash := HashBytes(data)
	mimetype := GuessMimetype(filename)

	// The blob write is idempotent per hash, so it can happen before the
	// transaction: a failed transaction leaves at worst an unreferenced blob
	// file, never a dangling reference.
	if err := r.storage.Store(ctx, BlobKey(hash), data); err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	type uploaded struct {
		attachment Attachment
		reclaimed  []string
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (uploaded, error) {
		if err := EnsureBlob(ctx, tx, hash, int64(len(data))); err != nil {
			return uploaded{}, err
		}

		// Capture the previous hash so a replace can release its reference.
		var oldHash sql.NullString
		err := tx.QueryRowContext(ctx,
			`SELECT content_hash FROM public.attachments WHERE document_id = $1 AND filename = $2`,
			documentID, filename,
		).Scan(&oldHash)
		if err != nil && err != sql.ErrNoRows {
			return uploaded{}, err
		}

		q := `INSERT INTO public.attachments(id, document_id, filename, content_hash, byte_length, mimetype)
			VALUES($1, $2, $3, $4, $5, $6)
			ON CONFLICT (document_id, filename) DO UPDATE
			SET content_hash = EXCLUDED.content_hash,
				byte_length = EXCLUDED.byte_length,
				mimetype = EXCLUDED.mimetype
			RETURNING id, document_id, filename, content_hash, byte_length, mimetype, created_at`

		att, err := repository.QueryOne(ctx, tx, q, []any{
			uuid.New(), documentID, filename, hash, int64(len(data)), mimetype,
		}, Scan)
		if err != nil {
			return uploaded{}, err
		}

		var reclaimed []string
		if oldHash.Valid && oldHash.String != hash {
			reclaimed, err = ReclaimOrphans(ctx, tx, []string{oldHash.String})
			if err != nil {
				return uploaded{}, err
			}
		}

		return uploaded{attachment: att, reclaimed: reclaimed}, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.removeBlobs(ctx, result.reclaimed)

	r.logger.Info(
		"attachment stored",
		"document_id", documentID,
		"filename", filename,
		"hash", hash,
		"bytes", len(data),
	)
	return &result.attachment, nil
}

func (r *repo) Detach(ctx context.Context, documentID uuid.UUID, filename string) error {
	reclaimed, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]string, error) {
		var hash string
		err := tx.QueryRowContext(ctx,
			`DELETE FROM public.attachments WHERE document_id = $1 AND filename = $2 RETURNING content_hash`,
			documentID, filename,
		).Scan(&hash)
		if err != nil {
			return nil, err
		}

		return ReclaimOrphans(ctx, tx, []string{hash})
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.removeBlobs(ctx, reclaimed)

	r.logger.Info("attachment detached", "document_id", documentID, "filename", filename)
	return nil
}

func (r *repo) Download(ctx context.Context, documentID uuid.UUID, filename string) (*Attachment, []byte, error) {
	att, err := r.Find(ctx, documentID, filename)
	if err != nil {
		return nil, nil, err
	}

	data, err := r.storage.Retrieve(ctx, BlobKey(att.Hash))
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve blob %s: %w", att.Hash, err)
	}
	return att, data, nil
}

// removeBlobs deletes reclaimed blob bytes after their rows are gone.
// Failures leave unreferenced files behind, which is safe; they are logged
// for an operator sweep.
func (r *repo) removeBlobs(ctx context.Context, hashes []string) {
	for _, hash := range hashes {
		if err := r.storage.Delete(ctx, BlobKey(hash)); err != nil {
			r.logger.Error("blob cleanup failed", "hash", hash, "error", err)
		}
	}
}
