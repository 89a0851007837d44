package pagination_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/mwhite-io/docsearch/pkg/pagination"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{"absent defaults to one", "", 1, false},
		{"empty defaults to one", "page=", 1, false},
		{"explicit page", "page=3", 3, false},
		{"zero accepted", "page=0", 0, false},
		{"negative accepted", "page=-2", -2, false},
		{"out of range accepted", "page=9999", 9999, false},
		{"non-integer", "page=abc", 0, true},
		{"float", "page=1.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}

			got, err := pagination.ParsePage(values)
			if tt.wantErr {
				if !errors.Is(err, pagination.ErrInvalidPage) {
					t.Fatalf("ParsePage() error = %v, want ErrInvalidPage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePage() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePage(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		want     int
	}{
		{"empty has zero pages", 0, 50, 0},
		{"negative has zero pages", -1, 50, 0},
		{"single partial page", 10, 50, 1},
		{"exact multiple", 100, 50, 2},
		{"remainder rounds up", 101, 50, 3},
		{"page size one", 3, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pagination.PageCount(tt.total, tt.pageSize); got != tt.want {
				t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name     string
		page     int
		pageSize int
		want     []int
	}{
		{"first page", 1, 3, []int{1, 2, 3}},
		{"middle page", 2, 3, []int{4, 5, 6}},
		{"final partial page", 3, 3, []int{7}},
		{"past the end", 4, 3, []int{}},
		{"zero page", 0, 3, []int{}},
		{"negative page", -1, 3, []int{}},
		{"page size covers all", 1, 50, items},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.Slice(items, tt.page, tt.pageSize)
			if len(got) != len(tt.want) {
				t.Fatalf("Slice() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Slice()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSliceEmptyInput(t *testing.T) {
	got := pagination.Slice([]string{}, 1, 10)
	if len(got) != 0 {
		t.Errorf("Slice() = %v, want empty", got)
	}
}

func TestNewResult(t *testing.T) {
	result := pagination.NewResult([]string{"a", "b"}, 12, 2, 5)

	if result.Page != 2 {
		t.Errorf("Page = %d, want 2", result.Page)
	}
	if result.Pages != 3 {
		t.Errorf("Pages = %d, want 3", result.Pages)
	}
	if len(result.Items) != 2 {
		t.Errorf("Items = %v", result.Items)
	}
}

func TestNewResultNilItems(t *testing.T) {
	result := pagination.NewResult[string](nil, 0, 1, 5)

	if result.Items == nil {
		t.Error("Items = nil, want empty slice")
	}
	if result.Pages != 0 {
		t.Errorf("Pages = %d, want 0", result.Pages)
	}
}
