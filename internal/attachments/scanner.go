package attachments

import "github.com/mwhite-io/docsearch/pkg/repository"

// Scan maps an attachment row in projection column order.
func Scan(s repository.Scanner) (Attachment, error) {
	var a Attachment
	err := s.Scan(
		&a.ID,
		&a.DocumentID,
		&a.Filename,
		&a.Hash,
		&a.ByteLength,
		&a.Mimetype,
		&a.CreatedAt,
	)
	return a, err
}
