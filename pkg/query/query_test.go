package query_test

import (
	"errors"
	"testing"

	"github.com/mwhite-io/docsearch/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "widgets", "w").
		Project("id", "ID").
		Project("name", "Name").
		Project("created_at", "CreatedAt")
}

func TestParseOrdering(t *testing.T) {
	allowed := map[string]string{
		"id":      "ID",
		"name":    "Name",
		"created": "CreatedAt",
	}

	tests := []struct {
		name    string
		values  []string
		want    []query.SortField
		wantErr bool
	}{
		{"no values", nil, nil, false},
		{"single ascending", []string{"name"}, []query.SortField{{Field: "Name"}}, false},
		{"descending prefix", []string{"-name"}, []query.SortField{{Field: "Name", Descending: true}}, false},
		{"multiple keys", []string{"-created", "id"}, []query.SortField{
			{Field: "CreatedAt", Descending: true},
			{Field: "ID"},
		}, false},
		{"empty values skipped", []string{"", "  ", "name"}, []query.SortField{{Field: "Name"}}, false},
		{"unknown field", []string{"color"}, nil, true},
		{"unknown among valid", []string{"name", "color"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := query.ParseOrdering(tt.values, allowed)
			if tt.wantErr {
				if !errors.Is(err, query.ErrInvalidOrderingField) {
					t.Fatalf("ParseOrdering() error = %v, want ErrInvalidOrderingField", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOrdering() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseOrdering() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ParseOrdering()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestProjectionMap(t *testing.T) {
	p := testProjection()

	if got := p.Table(); got != "public.widgets w" {
		t.Errorf("Table() = %q", got)
	}
	if got := p.Column("Name"); got != "w.name" {
		t.Errorf("Column(Name) = %q", got)
	}
	if got := p.Columns(); got != "w.id, w.name, w.created_at" {
		t.Errorf("Columns() = %q", got)
	}
}

func TestProjectionMapUnmappedFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Column() on unmapped field did not panic")
		}
	}()
	testProjection().Column("Color")
}

func TestBuilderBuildCount(t *testing.T) {
	name := "gear"
	sql, args := query.NewBuilder(testProjection(), "ID").
		WhereContains("Name", &name).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.widgets w WHERE w.name ILIKE $1"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "%gear%" {
		t.Errorf("BuildCount() args = %v", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	sql, args := query.NewBuilder(testProjection(), "ID").
		WhereEquals("Name", "gear").
		OrderByFields([]query.SortField{{Field: "Name", Descending: true}}).
		BuildPage(2, 10)

	want := "SELECT w.id, w.name, w.created_at FROM public.widgets w" +
		" WHERE w.name = $1 ORDER BY w.name DESC, w.id ASC LIMIT 10 OFFSET 10"
	if sql != want {
		t.Errorf("BuildPage() sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "gear" {
		t.Errorf("BuildPage() args = %v", args)
	}
}

func TestBuilderAlwaysAppendsTieBreak(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection(), "ID").BuildSelect()

	want := "SELECT w.id, w.name, w.created_at FROM public.widgets w ORDER BY w.id ASC"
	if sql != want {
		t.Errorf("BuildSelect() sql = %q, want %q", sql, want)
	}
}

func TestBuilderParameterRenumbering(t *testing.T) {
	name := "gear"
	sql, args := query.NewBuilder(testProjection(), "ID").
		WhereEquals("ID", 7).
		WhereContains("Name", &name).
		WhereIn("Name", []any{"a", "b"}).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.widgets w" +
		" WHERE w.id = $1 AND w.name ILIKE $2 AND w.name IN ($3, $4)"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if len(args) != 4 {
		t.Errorf("BuildCount() args = %v", args)
	}
}

func TestBuilderIgnoresNilConditions(t *testing.T) {
	sql, args := query.NewBuilder(testProjection(), "ID").
		WhereEquals("Name", nil).
		WhereContains("Name", nil).
		WhereIn("Name", nil).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.widgets w"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v", args)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection(), "ID").BuildSingle("Name", "gear")

	want := "SELECT w.id, w.name, w.created_at FROM public.widgets w WHERE w.name = $1"
	if sql != want {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "gear" {
		t.Errorf("BuildSingle() args = %v", args)
	}
}
