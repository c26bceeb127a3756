package query_test

import (
	"testing"

	"github.com/JaimeStill/campus-gallery/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "galleries", "g").
		Project("id", "Id").
		Project("title", "Title").
		Project("category", "Category").
		Project("created_at", "CreatedAt")
}

func TestProjectionMap(t *testing.T) {
	pm := testProjection()

	if pm.Table() != "public.galleries g" {
		t.Errorf("Table() = %q", pm.Table())
	}
	if pm.Column("Title") != "g.title" {
		t.Errorf("Column(Title) = %q", pm.Column("Title"))
	}
	if pm.Column("title") != "g.title" {
		t.Errorf("Column(title) = %q, lookup should ignore case", pm.Column("title"))
	}
	if pm.Column("Unknown") != "Unknown" {
		t.Errorf("Column(Unknown) = %q, want input returned", pm.Column("Unknown"))
	}
	if pm.Columns() != "g.id, g.title, g.category, g.created_at" {
		t.Errorf("Columns() = %q", pm.Columns())
	}
}

func TestBuilder_BuildCount_NoConditions(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildCount()

	if sql != "SELECT COUNT(*) FROM public.galleries g" {
		t.Errorf("BuildCount() sql = %q", sql)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want none", args)
	}
}

func TestBuilder_BuildPage_ConditionsAndSort(t *testing.T) {
	category := "SPORTS_DAY"
	search := "relay"

	b := query.NewBuilder(testProjection(), query.SortField{Field: "CreatedAt", Descending: true}).
		WhereEquals("Category", &category).
		WhereSearch(&search, "Title")

	sql, args := b.BuildPage(2, 10)

	want := "SELECT g.id, g.title, g.category, g.created_at FROM public.galleries g" +
		" WHERE g.category = $1 AND (g.title ILIKE $2)" +
		" ORDER BY g.created_at DESC LIMIT 10 OFFSET 10"

	if sql != want {
		t.Errorf("BuildPage() sql =\n%q\nwant\n%q", sql, want)
	}

	if len(args) != 2 || args[0] != "SPORTS_DAY" || args[1] != "%relay%" {
		t.Errorf("BuildPage() args = %v", args)
	}
}

func TestBuilder_WhereEquals_NilIgnored(t *testing.T) {
	var category *string

	sql, _ := query.NewBuilder(testProjection()).
		WhereEquals("Category", category).
		WhereEquals("Id", nil).
		BuildCount()

	if sql != "SELECT COUNT(*) FROM public.galleries g" {
		t.Errorf("BuildCount() sql = %q, nil filters should be ignored", sql)
	}
}

func TestBuilder_OrderByFields_DropsUnknown(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "Id"}).
		OrderByFields([]query.SortField{
			{Field: "title; DROP TABLE galleries"},
			{Field: "Title", Descending: true},
		})

	sql, _ := b.BuildPage(1, 5)
	want := "SELECT g.id, g.title, g.category, g.created_at FROM public.galleries g ORDER BY g.title DESC LIMIT 5 OFFSET 0"

	if sql != want {
		t.Errorf("BuildPage() sql = %q, want %q", sql, want)
	}
}

func TestBuilder_BuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildSingle("Id", int64(7))

	if sql != "SELECT g.id, g.title, g.category, g.created_at FROM public.galleries g WHERE g.id = $1" {
		t.Errorf("BuildSingle() sql = %q", sql)
	}
	if len(args) != 1 || args[0] != int64(7) {
		t.Errorf("BuildSingle() args = %v", args)
	}
}

func TestParseSortFields(t *testing.T) {
	got := query.ParseSortFields("title, -createdAt,,-")

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(got), got)
	}
	if got[0] != (query.SortField{Field: "title"}) {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1] != (query.SortField{Field: "createdAt", Descending: true}) {
		t.Errorf("got[1] = %+v", got[1])
	}
}
