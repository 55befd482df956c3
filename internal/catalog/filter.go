package catalog

import "strings"

const (
	AllStores   = "Todas"
	AllProducts = "Todos"
)

// Entry is anything that can be narrowed by category and searched by name.
type Entry interface {
	FilterName() string
	FilterCategory() string
}

// Filter narrows a list in two stages: category first, then a
// case-insensitive substring search on the name. Input order is preserved.
type Filter[T Entry] struct {
	// All is the sentinel category that disables the category stage.
	All string
	// SkipEmptyCategories leaves "" out of Categories.
	SkipEmptyCategories bool
}

var (
	StoreFilter   = Filter[Store]{All: AllStores}
	ProductFilter = Filter[Product]{All: AllProducts, SkipEmptyCategories: true}
)

// Apply returns the entries matching category and query as a new slice.
func (f Filter[T]) Apply(items []T, category, query string) []T {
	return f.Search(f.ByCategory(items, category), query)
}

// ByCategory keeps entries whose category equals category, ignoring case.
// The sentinel passes everything through.
func (f Filter[T]) ByCategory(items []T, category string) []T {
	out := make([]T, 0, len(items))
	if strings.EqualFold(category, f.All) {
		return append(out, items...)
	}
	for _, it := range items {
		if strings.EqualFold(it.FilterCategory(), category) {
			out = append(out, it)
		}
	}
	return out
}

// Search keeps entries whose name contains query, ignoring case. An empty
// query passes everything through.
func (f Filter[T]) Search(items []T, query string) []T {
	out := make([]T, 0, len(items))
	if query == "" {
		return append(out, items...)
	}
	needle := strings.ToLower(query)
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.FilterName()), needle) {
			out = append(out, it)
		}
	}
	return out
}

// Categories lists the sentinel followed by every distinct category in
// first-seen order.
func (f Filter[T]) Categories(items []T) []string {
	out := []string{f.All}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		c := it.FilterCategory()
		if c == "" && f.SkipEmptyCategories {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
