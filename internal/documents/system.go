package documents

import (
	"context"

	"github.com/google/uuid"
)

// System defines the document management operations. A ref is either a
// document id or an application-defined identifier.
type System interface {
	Resolve(ctx context.Context, ref string) (uuid.UUID, error)
	Find(ctx context.Context, ref string) (*Detail, error)
	Create(ctx context.Context, cmd CreateCommand) (*Detail, error)
	Update(ctx context.Context, ref string, cmd UpdateCommand) (*Detail, error)
	Delete(ctx context.Context, ref string) error
}
