// Package indexes manages named document groupings. An index owns
// associations to documents, never the documents themselves: deleting an
// index unlinks its documents and leaves them retrievable through the
// document list scope.
package indexes

import (
	"time"

	"github.com/google/uuid"
)

// Index is a named logical grouping of documents.
type Index struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is the list-view projection of an index with its association count.
type Summary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	DocumentCount int       `json:"document_count"`
}

// ListResult is a page of index summaries.
type ListResult struct {
	Indexes  []Summary `json:"indexes"`
	Ordering []string  `json:"ordering"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}
