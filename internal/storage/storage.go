// Package storage provides the content-addressable blob area backing
// attachment storage. Blob bytes are stored once per content hash; the
// attachments repository tracks references and decides when a blob may be
// reclaimed.
package storage

import "context"

// System defines the blob storage operations interface. Implementations
// handle the underlying storage mechanism while providing a consistent API
// for storing and retrieving binary data by key.
type System interface {
	// Store saves data at the specified key. Writing the same key twice is
	// idempotent, so concurrent uploads of identical content race
	// harmlessly. Returns ErrInvalidKey if the key is empty or contains
	// path traversal.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the data stored at the specified key.
	// Returns ErrNotFound if the key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the data at the specified key.
	// Returns nil if the key does not exist (idempotent).
	Delete(ctx context.Context, key string) error

	// Exists checks whether a key is present and readable.
	Exists(ctx context.Context, key string) (bool, error)
}
