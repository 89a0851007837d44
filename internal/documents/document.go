// Package documents manages searchable document content, its metadata
// annotations, and its index associations. Documents live independently of
// any index; associations come and go without touching the document row.
package documents

import (
	"time"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/internal/attachments"
)

// Document is the unit of searchable content.
type Document struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	Identifier *string   `json:"identifier"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Detail is the fully hydrated view of a document.
type Detail struct {
	ID          uuid.UUID                `json:"id"`
	Identifier  *string                  `json:"identifier"`
	Content     string                   `json:"content"`
	Metadata    map[string]string        `json:"metadata"`
	Indexes     []string                 `json:"indexes"`
	Attachments []attachments.Attachment `json:"attachments"`
}

// CreateCommand contains the data required to create a document. At least
// one index name is required: orphan documents are only ever produced by
// deleting indexes, not by creation.
type CreateCommand struct {
	Content    string
	Identifier *string
	Metadata   map[string]string
	IndexNames []string
}

// UpdateCommand contains the optional mutations applied by an update. Nil
// fields are left untouched; a non-nil Metadata replaces the entire metadata
// set and a non-nil IndexNames replaces the association set.
type UpdateCommand struct {
	Content    *string
	Identifier *string
	Metadata   *map[string]string
	IndexNames *[]string
}
