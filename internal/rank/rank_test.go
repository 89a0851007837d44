package rank_test

import (
	"errors"
	"math"
	"testing"

	"github.com/mwhite-io/docsearch/internal/rank"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		def     string
		want    rank.Strategy
		wantErr bool
	}{
		{"empty selects default", "", "bm25", rank.BM25, false},
		{"none", "none", "bm25", rank.None, false},
		{"bm25", "bm25", "none", rank.BM25, false},
		{"simple", "simple", "bm25", rank.Simple, false},
		{"case insensitive", "BM25", "none", rank.BM25, false},
		{"mixed case", "Simple", "none", rank.Simple, false},
		{"unknown", "cosine", "bm25", "", true},
		{"unknown default", "", "cosine", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rank.Parse(tt.raw, tt.def)
			if tt.wantErr {
				if !errors.Is(err, rank.ErrUnknownStrategy) {
					t.Fatalf("Parse() error = %v, want ErrUnknownStrategy", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q, %q) = %q, want %q", tt.raw, tt.def, got, tt.want)
			}
		})
	}
}

func TestScored(t *testing.T) {
	tests := []struct {
		name     string
		strategy rank.Strategy
		query    string
		want     bool
	}{
		{"none never scores", rank.None, "coffee", false},
		{"bm25 with query", rank.BM25, "coffee", true},
		{"bm25 without query", rank.BM25, "", false},
		{"simple with query", rank.Simple, "coffee", true},
		{"simple without query", rank.Simple, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.strategy.Scored(tt.query); got != tt.want {
				t.Errorf("Scored(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		content string
		want    float64
	}{
		{"empty query", "", "some content", 0},
		{"no overlap", "tea", "coffee roaster", 0},
		{"first token", "coffee", "coffee roaster", 1},
		{"second token", "roaster", "coffee roaster", 0.5},
		{"two terms", "coffee roaster", "coffee roaster", 1.5},
		{"duplicate terms count once", "coffee coffee", "coffee roaster", 1},
		{"first occurrence wins", "coffee", "coffee loves coffee", 1},
		{"case insensitive", "COFFEE", "Coffee roaster", 1},
		{"punctuation stripped", "coffee", "(coffee), roasted.", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rank.Score(tt.query, tt.content)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.query, tt.content, got, tt.want)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	query := "portland coffee roaster"
	content := "A Portland coffee roaster known for single-origin beans."

	first := rank.Score(query, content)
	for i := 0; i < 5; i++ {
		if got := rank.Score(query, content); got != first {
			t.Fatalf("Score() = %v on repeat, want %v", got, first)
		}
	}
}

func TestScoreOrdersByRelevance(t *testing.T) {
	query := "coffee"

	early := rank.Score(query, "coffee roaster in town")
	late := rank.Score(query, "the best roaster of coffee")

	if early <= late {
		t.Errorf("earlier match should score higher: early=%v late=%v", early, late)
	}
}
