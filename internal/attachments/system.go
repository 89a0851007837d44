package attachments

import (
	"context"
	"net/url"

	"github.com/google/uuid"
)

// System defines the attachment store operations. Upload creates or replaces
// the attachment for (document, filename); Download returns the stored
// bytes.
type System interface {
	List(ctx context.Context, documentID uuid.UUID, params url.Values) (*ListResult, error)
	Find(ctx context.Context, documentID uuid.UUID, filename string) (*Attachment, error)
	Upload(ctx context.Context, documentID uuid.UUID, filename string, data []byte) (*Attachment, error)
	Detach(ctx context.Context, documentID uuid.UUID, filename string) error
	Download(ctx context.Context, documentID uuid.UUID, filename string) (*Attachment, []byte, error)
}
