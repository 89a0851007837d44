package indexes

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/pkg/pagination"
	"github.com/mwhite-io/docsearch/pkg/query"
	"github.com/mwhite-io/docsearch/pkg/repository"
)

// orderFields is the ordering allow-list for the index list view, mapping
// exposed names to SQL sort expressions.
var orderFields = map[string]string{
	"id":             "i.id",
	"name":           "i.name",
	"document_count": "document_count",
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an index repository.
func New(db *sql.DB, logger *slog.Logger, pag pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "indexes"),
		pagination: pag,
	}
}

func (r *repo) List(ctx context.Context, params url.Values) (*ListResult, error) {
	ordering, err := query.ParseOrdering(params["ordering"], orderFields)
	if err != nil {
		return nil, err
	}
	if len(ordering) == 0 {
		ordering = []query.SortField{{Field: "i.name"}}
	}

	page, err := pagination.ParsePage(params)
	if err != nil {
		return nil, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM public.indexes`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count indexes: %w", err)
	}

	offset := (page - 1) * r.pagination.PageSize
	if offset < 0 {
		offset = 0
	}

	q := fmt.Sprintf(
		`SELECT i.id, i.name, COUNT(xd.document_id) AS document_count
		FROM public.indexes i
		LEFT JOIN public.index_documents xd ON xd.index_id = i.id
		GROUP BY i.id, i.name
		ORDER BY %s
		LIMIT %d OFFSET %d`,
		orderBy(ordering),
		r.pagination.PageSize,
		offset,
	)

	summaries, err := repository.QueryMany(ctx, r.db, q, nil, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query indexes: %w", err)
	}
	if summaries == nil {
		summaries = []Summary{}
	}

	rawOrdering := append([]string(nil), params["ordering"]...)
	if rawOrdering == nil {
		rawOrdering = []string{}
	}

	return &ListResult{
		Indexes:  summaries,
		Ordering: rawOrdering,
		Page:     page,
		Pages:    pagination.PageCount(total, r.pagination.PageSize),
	}, nil
}

func (r *repo) Create(ctx context.Context, name string) (*Index, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	q := `INSERT INTO public.indexes(id, name)
		VALUES($1, $2)
		RETURNING id, name, created_at, updated_at`

	idx, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Index, error) {
		return repository.QueryOne(ctx, tx, q, []any{uuid.New(), name}, scanIndex)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("index created", "id", idx.ID, "name", idx.Name)
	return &idx, nil
}

func (r *repo) Find(ctx context.Context, name string) (*Index, error) {
	q := `SELECT id, name, created_at, updated_at FROM public.indexes WHERE name = $1`

	idx, err := repository.QueryOne(ctx, r.db, q, []any{name}, scanIndex)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &idx, nil
}

func (r *repo) Rename(ctx context.Context, name, newName string) (*Index, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ErrEmptyName
	}

	q := `UPDATE public.indexes SET name = $1, updated_at = NOW()
		WHERE name = $2
		RETURNING id, name, created_at, updated_at`

	idx, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Index, error) {
		return repository.QueryOne(ctx, tx, q, []any{newName, name}, scanIndex)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("index renamed", "id", idx.ID, "from", name, "to", idx.Name)
	return &idx, nil
}

func (r *repo) Delete(ctx context.Context, name string) error {
	type unlinked struct {
		id    uuid.UUID
		ndocs int64
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (unlinked, error) {
		var id uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM public.indexes WHERE name = $1`, name).Scan(&id)
		if err != nil {
			return unlinked{}, err
		}

		// Unlink association rows only: documents outlive their indexes.
		res, err := tx.ExecContext(ctx, `DELETE FROM public.index_documents WHERE index_id = $1`, id)
		if err != nil {
			return unlinked{}, err
		}
		ndocs, _ := res.RowsAffected()

		if err := repository.ExecExpectOne(ctx, tx, `DELETE FROM public.indexes WHERE id = $1`, id); err != nil {
			return unlinked{}, err
		}
		return unlinked{id: id, ndocs: ndocs}, nil
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("index deleted", "id", result.id, "name", name, "unlinked_documents", result.ndocs)
	return nil
}

func orderBy(fields []query.SortField) string {
	keys := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		keys = append(keys, fmt.Sprintf("%s %s", f.Field, dir))
	}
	keys = append(keys, "i.id ASC")
	return strings.Join(keys, ", ")
}
