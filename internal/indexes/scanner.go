package indexes

import "github.com/mwhite-io/docsearch/pkg/repository"

func scanIndex(s repository.Scanner) (Index, error) {
	var i Index
	err := s.Scan(&i.ID, &i.Name, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func scanSummary(s repository.Scanner) (Summary, error) {
	var sm Summary
	err := s.Scan(&sm.ID, &sm.Name, &sm.DocumentCount)
	return sm, err
}
