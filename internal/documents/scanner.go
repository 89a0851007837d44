package documents

import (
	"database/sql"

	"github.com/mwhite-io/docsearch/pkg/repository"
)

func scanDocument(s repository.Scanner) (Document, error) {
	var (
		d          Document
		identifier sql.NullString
	)
	err := s.Scan(&d.ID, &identifier, &d.Content, &d.CreatedAt, &d.UpdatedAt)
	if identifier.Valid {
		d.Identifier = &identifier.String
	}
	return d, err
}
