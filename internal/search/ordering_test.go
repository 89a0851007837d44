package search

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/pkg/query"
)

func mkCandidate(id byte, identifier string, content string, score *float64) candidate {
	var u uuid.UUID
	u[15] = id
	c := candidate{id: u, content: content, score: score}
	if identifier != "" {
		c.identifier = &identifier
	}
	return c
}

func ptr(f float64) *float64 { return &f }

func ids(cands []candidate) []byte {
	out := make([]byte, len(cands))
	for i, c := range cands {
		out[i] = c.id[15]
	}
	return out
}

func assertOrder(t *testing.T, cands []candidate, want []byte) {
	t.Helper()
	got := ids(cands)
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortCandidatesDefaultsToIDOrder(t *testing.T) {
	cands := []candidate{
		mkCandidate(3, "", "c", nil),
		mkCandidate(1, "", "a", nil),
		mkCandidate(2, "", "b", nil),
	}

	sortCandidates(cands, nil, false)
	assertOrder(t, cands, []byte{1, 2, 3})
}

func TestSortCandidatesScoredDefaultsToScoreDescending(t *testing.T) {
	cands := []candidate{
		mkCandidate(1, "", "a", ptr(0.1)),
		mkCandidate(2, "", "b", ptr(0.9)),
		mkCandidate(3, "", "c", ptr(0.5)),
	}

	sortCandidates(cands, nil, true)
	assertOrder(t, cands, []byte{2, 3, 1})
}

func TestSortCandidatesExplicitOrderingOverridesScore(t *testing.T) {
	cands := []candidate{
		mkCandidate(1, "", "zebra", ptr(0.9)),
		mkCandidate(2, "", "apple", ptr(0.1)),
	}

	ordering := []query.SortField{{Field: "content"}}
	sortCandidates(cands, ordering, true)
	assertOrder(t, cands, []byte{2, 1})
}

func TestSortCandidatesDescending(t *testing.T) {
	cands := []candidate{
		mkCandidate(1, "alpha", "", nil),
		mkCandidate(2, "gamma", "", nil),
		mkCandidate(3, "beta", "", nil),
	}

	ordering := []query.SortField{{Field: "identifier", Descending: true}}
	sortCandidates(cands, ordering, false)
	assertOrder(t, cands, []byte{2, 3, 1})
}

func TestSortCandidatesTieBreakByID(t *testing.T) {
	cands := []candidate{
		mkCandidate(3, "", "same", ptr(0.5)),
		mkCandidate(1, "", "same", ptr(0.5)),
		mkCandidate(2, "", "same", ptr(0.5)),
	}

	sortCandidates(cands, []query.SortField{{Field: "content"}}, true)
	assertOrder(t, cands, []byte{1, 2, 3})
}

func TestSortCandidatesNilScoreSortsAsZero(t *testing.T) {
	cands := []candidate{
		mkCandidate(1, "", "", nil),
		mkCandidate(2, "", "", ptr(0.5)),
	}

	sortCandidates(cands, []query.SortField{{Field: "score", Descending: true}}, true)
	assertOrder(t, cands, []byte{2, 1})
}

func TestSortCandidatesSecondaryKey(t *testing.T) {
	cands := []candidate{
		mkCandidate(1, "b", "x", nil),
		mkCandidate(2, "a", "y", nil),
		mkCandidate(3, "a", "x", nil),
	}

	ordering := []query.SortField{{Field: "identifier"}, {Field: "content"}}
	sortCandidates(cands, ordering, false)
	assertOrder(t, cands, []byte{3, 2, 1})
}

func TestSortCandidatesStable(t *testing.T) {
	cands := []candidate{
		mkCandidate(9, "", "same", nil),
		mkCandidate(4, "", "same", nil),
	}

	// Sorting twice must yield the identical permutation.
	sortCandidates(cands, nil, false)
	first := ids(cands)
	sortCandidates(cands, nil, false)
	second := ids(cands)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order changed between runs: %v then %v", first, second)
		}
	}
}
