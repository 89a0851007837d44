package documents

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/internal/attachments"
	"github.com/mwhite-io/docsearch/internal/storage"
	"github.com/mwhite-io/docsearch/pkg/repository"
)

type repo struct {
	db      *sql.DB
	storage storage.System
	logger  *slog.Logger
}

// New creates a document repository.
func New(db *sql.DB, store storage.System, logger *slog.Logger) System {
	return &repo{
		db:      db,
		storage: store,
		logger:  logger.With("system", "documents"),
	}
}

// Resolve maps a path reference to a document id. References that parse as
// UUIDs resolve by primary key, anything else by identifier; identifiers are
// not unique, so the lowest id wins for stability.
func (r *repo) Resolve(ctx context.Context, ref string) (uuid.UUID, error) {
	return resolve(ctx, r.db, ref)
}

func resolve(ctx context.Context, q repository.Querier, ref string) (uuid.UUID, error) {
	var (
		id  uuid.UUID
		err error
	)
	if parsed, parseErr := uuid.Parse(ref); parseErr == nil {
		err = q.QueryRowContext(ctx, `SELECT id FROM public.documents WHERE id = $1`, parsed).Scan(&id)
	} else {
		err = q.QueryRowContext(ctx,
			`SELECT id FROM public.documents WHERE identifier = $1 ORDER BY id LIMIT 1`, ref,
		).Scan(&id)
	}
	if err != nil {
		return uuid.Nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return id, nil
}

func (r *repo) Find(ctx context.Context, ref string) (*Detail, error) {
	id, err := r.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return r.detail(ctx, r.db, id)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Detail, error) {
	if strings.TrimSpace(cmd.Content) == "" {
		return nil, ErrEmptyContent
	}
	if len(cmd.IndexNames) == 0 {
		return nil, ErrNoIndexes
	}

	// Creating under an identifier that already exists updates that
	// document instead of producing a duplicate.
	if cmd.Identifier != nil && *cmd.Identifier != "" {
		if _, err := r.Resolve(ctx, *cmd.Identifier); err == nil {
			update := UpdateCommand{
				Content:    &cmd.Content,
				Identifier: cmd.Identifier,
				IndexNames: &cmd.IndexNames,
			}
			if cmd.Metadata != nil {
				update.Metadata = &cmd.Metadata
			}
			return r.Update(ctx, *cmd.Identifier, update)
		}
	}

	id, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (uuid.UUID, error) {
		indexIDs, err := resolveIndexIDs(ctx, tx, cmd.IndexNames)
		if err != nil {
			return uuid.Nil, err
		}

		docID := uuid.New()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO public.documents(id, content, identifier) VALUES($1, $2, $3)`,
			docID, cmd.Content, cmd.Identifier,
		)
		if err != nil {
			return uuid.Nil, err
		}

		if err := replaceMetadata(ctx, tx, docID, cmd.Metadata); err != nil {
			return uuid.Nil, err
		}

		for _, indexID := range indexIDs {
			if err := link(ctx, tx, indexID, docID); err != nil {
				return uuid.Nil, err
			}
		}
		return docID, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", id, "indexes", cmd.IndexNames)
	return r.detail(ctx, r.db, id)
}

func (r *repo) Update(ctx context.Context, ref string, cmd UpdateCommand) (*Detail, error) {
	if cmd.Content != nil && strings.TrimSpace(*cmd.Content) == "" {
		return nil, ErrEmptyContent
	}

	id, err := r.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if cmd.Content != nil || cmd.Identifier != nil {
			set := make([]string, 0, 2)
			args := make([]any, 0, 3)
			if cmd.Content != nil {
				args = append(args, *cmd.Content)
				set = append(set, fmt.Sprintf("content = $%d", len(args)))
			}
			if cmd.Identifier != nil {
				args = append(args, *cmd.Identifier)
				set = append(set, fmt.Sprintf("identifier = $%d", len(args)))
			}
			args = append(args, id)

			q := fmt.Sprintf(
				`UPDATE public.documents SET %s, updated_at = NOW() WHERE id = $%d`,
				strings.Join(set, ", "), len(args),
			)
			if err := repository.ExecExpectOne(ctx, tx, q, args...); err != nil {
				return struct{}{}, err
			}
		}

		if cmd.Metadata != nil {
			if err := replaceMetadata(ctx, tx, id, *cmd.Metadata); err != nil {
				return struct{}{}, err
			}
		}

		if cmd.IndexNames != nil {
			indexIDs, err := resolveIndexIDs(ctx, tx, *cmd.IndexNames)
			if err != nil {
				return struct{}{}, err
			}

			_, err = tx.ExecContext(ctx,
				`DELETE FROM public.index_documents WHERE document_id = $1`, id)
			if err != nil {
				return struct{}{}, err
			}
			for _, indexID := range indexIDs {
				if err := link(ctx, tx, indexID, id); err != nil {
					return struct{}{}, err
				}
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document updated", "id", id)
	return r.detail(ctx, r.db, id)
}

func (r *repo) Delete(ctx context.Context, ref string) error {
	id, err := r.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	reclaimed, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]string, error) {
		rows, err := tx.QueryContext(ctx,
			`SELECT content_hash FROM public.attachments WHERE document_id = $1`, id)
		if err != nil {
			return nil, err
		}

		var hashes []string
		for rows.Next() {
			var hash string
			if err := rows.Scan(&hash); err != nil {
				rows.Close()
				return nil, err
			}
			hashes = append(hashes, hash)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		// Associations, metadata, and attachment rows cascade with the
		// document row; orphaned blobs are reclaimed afterwards.
		if err := repository.ExecExpectOne(ctx, tx,
			`DELETE FROM public.documents WHERE id = $1`, id); err != nil {
			return nil, err
		}

		return attachments.ReclaimOrphans(ctx, tx, hashes)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	for _, hash := range reclaimed {
		if err := r.storage.Delete(ctx, attachments.BlobKey(hash)); err != nil {
			r.logger.Error("blob cleanup failed", "hash", hash, "error", err)
		}
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func (r *repo) detail(ctx context.Context, q repository.Querier, id uuid.UUID) (*Detail, error) {
	doc, err := repository.QueryOne(ctx, q,
		`SELECT id, identifier, content, created_at, updated_at FROM public.documents WHERE id = $1`,
		[]any{id}, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	metadata, err := loadMetadata(ctx, q, id)
	if err != nil {
		return nil, err
	}

	names, err := repository.QueryMany(ctx, q,
		`SELECT i.name FROM public.indexes i
		JOIN public.index_documents xd ON xd.index_id = i.id
		WHERE xd.document_id = $1
		ORDER BY i.name`,
		[]any{id}, scanString)
	if err != nil {
		return nil, fmt.Errorf("load index names: %w", err)
	}
	if names == nil {
		names = []string{}
	}

	atts, err := repository.QueryMany(ctx, q,
		`SELECT a.id, a.document_id, a.filename, a.content_hash, a.byte_length, a.mimetype, a.created_at
		FROM public.attachments a
		WHERE a.document_id = $1
		ORDER BY a.filename`,
		[]any{id}, attachments.Scan)
	if err != nil {
		return nil, fmt.Errorf("load attachments: %w", err)
	}
	if atts == nil {
		atts = []attachments.Attachment{}
	}

	return &Detail{
		ID:          doc.ID,
		Identifier:  doc.Identifier,
		Content:     doc.Content,
		Metadata:    metadata,
		Indexes:     names,
		Attachments: atts,
	}, nil
}

// replaceMetadata atomically swaps a document's entire metadata set. Callers
// run it inside a transaction, so readers never observe a partial replace.
func replaceMetadata(ctx context.Context, tx *sql.Tx, id uuid.UUID, metadata map[string]string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM public.metadata WHERE document_id = $1`, id); err != nil {
		return err
	}

	for key, value := range metadata {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO public.metadata(document_id, key, value) VALUES($1, $2, $3)`,
			id, key, value); err != nil {
			return err
		}
	}
	return nil
}

func loadMetadata(ctx context.Context, q repository.Querier, id uuid.UUID) (map[string]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT key, value FROM public.metadata WHERE document_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}
	return metadata, rows.Err()
}

// resolveIndexIDs maps index names to ids, failing when any name is unknown.
func resolveIndexIDs(ctx context.Context, q repository.Querier, names []string) ([]uuid.UUID, error) {
	placeholders := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = name
	}

	rows, err := q.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, name FROM public.indexes WHERE name IN (%s)`,
		strings.Join(placeholders, ", ")), args...)
	if err != nil {
		return nil, fmt.Errorf("resolve indexes: %w", err)
	}
	defer rows.Close()

	found := make(map[string]uuid.UUID, len(names))
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		found[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(names))
	var missing []string
	for _, name := range names {
		if id, ok := found[name]; ok {
			ids = append(ids, id)
		} else {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, strings.Join(missing, ", "))
	}
	return ids, nil
}

// link associates a document with an index, idempotently.
func link(ctx context.Context, tx *sql.Tx, indexID, documentID uuid.UUID) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO public.index_documents(index_id, document_id) VALUES($1, $2)
		ON CONFLICT (index_id, document_id) DO NOTHING`,
		indexID, documentID)
	return err
}

func scanString(s repository.Scanner) (string, error) {
	var v string
	err := s.Scan(&v)
	return v, err
}
