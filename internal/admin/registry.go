// Package admin holds the declarative registration table for the
// management UI. It is configuration, not logic: each entry names a
// model and how a management tool should list and search it. The
// read-only overview page in internal/http consumes it.
package admin

// ModelAdmin describes one registered model.
type ModelAdmin struct {
	Name         string
	ListDisplay  []string
	SearchFields []string
}

// Registry returns the registered models in display order.
func Registry() []ModelAdmin {
	return []ModelAdmin{
		{
			Name:         "Book",
			ListDisplay:  []string{"title", "authors", "categories", "owner"},
			SearchFields: []string{"title", "description", "authors__name", "categories__name"},
		},
		{
			Name:        "Author",
			ListDisplay: []string{"name"},
		},
		{
			Name:        "Category",
			ListDisplay: []string{"name"},
		},
		{
			Name:         "Chapter",
			ListDisplay:  []string{"title", "book"},
			SearchFields: []string{"title", "book__title"},
		},
		{
			Name:         "FavoriteBook",
			ListDisplay:  []string{"user", "book"},
			SearchFields: []string{"user__username", "book__title"},
		},
	}
}
