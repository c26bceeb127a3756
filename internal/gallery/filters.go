package gallery

import (
	"net/url"
	"strings"

	"github.com/JaimeStill/campus-gallery/pkg/query"
)

// Filters contains optional criteria for filtering gallery queries.
type Filters struct {
	Category *Category
	Title    *string
}

// FiltersFromQuery extracts gallery filters from URL query parameters.
// An unrecognized category is dropped rather than matching nothing.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := Category(strings.ToUpper(values.Get("category"))); c.Valid() {
		f.Category = &c
	}

	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	return f
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	var category *string
	if f.Category != nil {
		c := string(*f.Category)
		category = &c
	}

	return b.
		WhereEquals("Category", category).
		WhereContains("Title", f.Title)
}

func (f Filters) match(r *Record) bool {
	if f.Category != nil && r.Category != *f.Category {
		return false
	}
	if f.Title != nil && !containsFold(r.Title, *f.Title) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
