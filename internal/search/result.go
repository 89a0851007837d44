package search

import (
	"time"

	"github.com/google/uuid"
)

// AttachmentSummary is the per-attachment detail embedded in hydrated
// search results.
type AttachmentSummary struct {
	Filename   string    `json:"filename"`
	Mimetype   string    `json:"mimetype"`
	Hash       string    `json:"hash"`
	ByteLength int64     `json:"data_length"`
	Timestamp  time.Time `json:"timestamp"`
}

// Document is one hydrated search result.
type Document struct {
	ID          uuid.UUID           `json:"id"`
	Identifier  *string             `json:"identifier"`
	Content     string              `json:"content"`
	Metadata    map[string]string   `json:"metadata"`
	Indexes     []string            `json:"indexes"`
	Attachments []AttachmentSummary `json:"attachments"`
	Score       *float64            `json:"score,omitempty"`
}

// Result is a fully resolved page of search output. DocumentCount is the
// scope size before filtering; FilteredCount is the match count after the
// filter expression is applied. Ranking and SearchTerm are present only when
// a query was supplied, and Ranking always names the strategy actually
// applied.
type Result struct {
	DocumentCount int                 `json:"document_count"`
	Documents     []Document          `json:"documents"`
	FilteredCount int                 `json:"filtered_count"`
	Filters       map[string][]string `json:"filters"`
	Ordering      []string            `json:"ordering"`
	Ranking       string              `json:"ranking,omitempty"`
	SearchTerm    string              `json:"search_term,omitempty"`
	Page          int                 `json:"page"`
	Pages         int                 `json:"pages"`
}
