// Package attachments manages binary files linked to documents. Bytes are
// stored once per content hash in the content-addressable blob area; rows in
// the attachments relation reference blobs by hash, so identical uploads
// share a single stored copy.
package attachments

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attachment is a document-scoped reference to a stored blob.
type Attachment struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Hash       string    `json:"hash"`
	ByteLength int64     `json:"data_length"`
	Mimetype   string    `json:"mimetype"`
	CreatedAt  time.Time `json:"timestamp"`
}

// ListResult is a page of attachments.
type ListResult struct {
	Attachments []Attachment `json:"attachments"`
	Ordering    []string     `json:"ordering"`
	Page        int          `json:"page"`
	Pages       int          `json:"pages"`
}

// HashBytes returns the content hash used to address a blob.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// BlobKey returns the storage key for a content hash, sharded by the first
// two hex digits to keep directories small.
func BlobKey(hash string) string {
	return fmt.Sprintf("blobs/%s/%s", hash[:2], hash)
}

// GuessMimetype resolves a mimetype from the filename extension, defaulting
// to text/plain.
func GuessMimetype(filename string) string {
	mimetype := mime.TypeByExtension(filepath.Ext(filename))
	if mimetype == "" {
		return "text/plain"
	}
	// TypeByExtension may append a charset parameter; only the media type is stored.
	if idx := strings.Index(mimetype, ";"); idx != -1 {
		mimetype = strings.TrimSpace(mimetype[:idx])
	}
	return mimetype
}

// SanitizeFilename strips path components and replaces characters that are
// unsafe in storage keys.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
