package filter_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/mwhite-io/docsearch/internal/filter"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantGroups int
		wantErr    error
	}{
		{"no parameters", "", 0, nil},
		{"reserved only", "q=hello&page=2&ordering=name&ranking=bm25&index=docs&key=secret", 0, nil},
		{"bare key is equality", "city=portland", 1, nil},
		{"operator suffix", "year__ge=2019", 1, nil},
		{"distinct groups", "city=portland&year__ge=2019", 2, nil},
		{"repeated values single group", "city=portland&city=salem", 1, nil},
		{"double underscore key", "review__count=4", 0, filter.ErrInvalidOperator},
		{"unknown operator", "city__near=portland", 0, filter.ErrInvalidOperator},
		{"empty value comparison", "year__ge=", 0, filter.ErrEmptyValue},
		{"empty value equality", "city=", 1, nil},
		{"empty value inequality", "city__ne=", 1, nil},
		{"invalid regex", "city__regex=[", 0, filter.ErrInvalidRegex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}

			expr, err := filter.Compile(params)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Compile() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}

			if len(expr.Groups) != tt.wantGroups {
				t.Errorf("Compile() groups = %d, want %d", len(expr.Groups), tt.wantGroups)
			}
			if expr.IsEmpty() != (tt.wantGroups == 0) {
				t.Errorf("IsEmpty() = %v with %d groups", expr.IsEmpty(), len(expr.Groups))
			}
		})
	}
}

func TestCompileInSplitsValues(t *testing.T) {
	params := url.Values{"city__in": {"portland, salem ,eugene"}}

	expr, err := filter.Compile(params)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if len(expr.Groups) != 1 || len(expr.Groups[0].Predicates) != 1 {
		t.Fatalf("unexpected expression shape: %+v", expr.Groups)
	}

	got := expr.Groups[0].Predicates[0].Values
	want := []string{"portland", "salem", "eugene"}
	if len(got) != len(want) {
		t.Fatalf("Values = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCompileReportsFilters(t *testing.T) {
	params := url.Values{
		"city":     {"portland"},
		"year__ge": {"2019"},
		"q":        {"coffee"},
	}

	expr, err := filter.Compile(params)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	filters := expr.Filters()
	if len(filters) != 2 {
		t.Fatalf("Filters() = %v, want 2 entries", filters)
	}
	if filters["city"][0] != "portland" || filters["year__ge"][0] != "2019" {
		t.Errorf("Filters() = %v", filters)
	}
	if _, ok := filters["q"]; ok {
		t.Error("Filters() includes reserved parameter q")
	}
}

func TestMatch(t *testing.T) {
	metadata := map[string]string{
		"city":   "Portland",
		"year":   "2019",
		"rating": "4.5",
		"name":   "Proud Mary Coffee",
	}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"empty expression matches", "", true},
		{"equality match", "city=Portland", true},
		{"equality is case sensitive", "city=portland", false},
		{"equality mismatch", "city=Salem", false},
		{"missing key never matches", "state=OR", false},
		{"missing key inequality", "state__ne=OR", false},
		{"inequality", "city__ne=Salem", true},
		{"numeric ge", "year__ge=2019", true},
		{"numeric gt excludes equal", "year__gt=2019", false},
		{"numeric lt", "rating__lt=5", true},
		{"numeric le", "rating__le=4.5", true},
		{"lexicographic compare", "city__ge=Aberdeen", true},
		{"in membership", "city__in=Salem,Portland", true},
		{"in miss", "city__in=Salem,Eugene", false},
		{"contains case insensitive", "name__contains=proud", true},
		{"contains miss", "name__contains=tea", false},
		{"startswith case insensitive", "name__startswith=PROUD", true},
		{"endswith case insensitive", "name__endswith=coffee", true},
		{"regex", "city__regex=^Port", true},
		{"regex miss", "city__regex=^land", false},
		{"or within group", "city=Salem&city=Portland", true},
		{"and across groups", "city=Portland&year__ge=2020", false},
		{"and across groups match", "city=Portland&year__ge=2018", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}

			expr, err := filter.Compile(params)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}

			if got := expr.Match(metadata); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestMatchNumericFallsBackToLexicographic(t *testing.T) {
	metadata := map[string]string{"version": "v2"}

	params := url.Values{"version__ge": {"v1"}}
	expr, err := filter.Compile(params)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !expr.Match(metadata) {
		t.Error("Match() = false, want lexicographic v2 >= v1")
	}
}
