package attachments

import "github.com/mwhite-io/docsearch/pkg/query"

var projection = query.NewProjectionMap("public", "attachments", "a").
	Project("id", "Id").
	Project("document_id", "DocumentId").
	Project("filename", "Filename").
	Project("content_hash", "ContentHash").
	Project("byte_length", "ByteLength").
	Project("mimetype", "Mimetype").
	Project("created_at", "CreatedAt")

// orderFields is the ordering allow-list for attachment listings.
var orderFields = map[string]string{
	"id":        "Id",
	"filename":  "Filename",
	"hash":      "ContentHash",
	"mimetype":  "Mimetype",
	"timestamp": "CreatedAt",
}
