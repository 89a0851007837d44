package attachments

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwhite-io/docsearch/pkg/repository"
)

// EnsureBlob records a blob row for the given hash, idempotently. The caller
// writes the bytes to the content-addressable area; dueling inserts of the
// same hash are harmless.
func EnsureBlob(ctx context.Context, q repository.Querier, hash string, byteLength int64) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO public.blobs(hash, byte_length) VALUES($1, $2)
		ON CONFLICT (hash) DO NOTHING`,
		hash, byteLength,
	)
	if err != nil {
		return fmt.Errorf("ensure blob %s: %w", hash, err)
	}
	return nil
}

// ReclaimOrphans deletes blob rows among hashes that no attachment row
// references any longer, returning the reclaimed hashes so the caller can
// remove the stored bytes after commit. A blob that is still referenced is
// never removed.
func ReclaimOrphans(ctx context.Context, q repository.Querier, hashes []string) ([]string, error) {
	if len(hashes) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(hashes))
	distinct := make([]string, 0, len(hashes))
	for _, h := range hashes {
		if h != "" && !seen[h] {
			seen[h] = true
			distinct = append(distinct, h)
		}
	}

	placeholders := make([]string, len(distinct))
	args := make([]any, len(distinct))
	for i, h := range distinct {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = h
	}

	del := fmt.Sprintf(
		`DELETE FROM public.blobs b
		WHERE b.hash IN (%s)
		AND NOT EXISTS (SELECT 1 FROM public.attachments a WHERE a.content_hash = b.hash)
		RETURNING b.hash`,
		strings.Join(placeholders, ", "),
	)

	rows, err := q.QueryContext(ctx, del, args...)
	if err != nil {
		return nil, fmt.Errorf("reclaim blobs: %w", err)
	}
	defer rows.Close()

	var reclaimed []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, err
		}
		reclaimed = append(reclaimed, hash)
	}
	return reclaimed, rows.Err()
}
