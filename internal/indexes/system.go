package indexes

import (
	"context"
	"net/url"
)

// System defines the index management operations.
type System interface {
	List(ctx context.Context, params url.Values) (*ListResult, error)
	Create(ctx context.Context, name string) (*Index, error)
	Find(ctx context.Context, name string) (*Index, error)
	Rename(ctx context.Context, name, newName string) (*Index, error)
	Delete(ctx context.Context, name string) error
}
