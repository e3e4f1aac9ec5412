package search

import "math"

// Item is one autocomplete entry in the select2-compatible shape.
type Item struct {
	ID   any    `json:"id"`
	Text string `json:"text"`
}

// Results is the common payload returned by the built-in handlers. More is
// true when items exist beyond the current page.
type Results struct {
	Results []Item `json:"results"`
	Total   int    `json:"total"`
	More    bool   `json:"more"`
}

// Offset returns the zero-based offset for page/perPage. Non-positive values
// are treated as the defaults. Offsets that do not fit in an int saturate at
// math.MaxInt so far-past-the-end pages stay past the end.
func Offset(page, perPage int) int {
	if page <= 0 {
		page = DefaultPage
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// Paginate slices items for the requested page and wraps them in Results.
func Paginate(items []Item, page, perPage int) Results {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(items)
	start := min(max(Offset(page, perPage), 0), total)
	end := total
	if perPage < total-start {
		end = start + perPage
	}

	out := make([]Item, 0, end-start)
	out = append(out, items[start:end]...)
	return Results{
		Results: out,
		Total:   total,
		More:    end < total,
	}
}

// NewResults builds a payload from an already paged slice plus the total
// match count reported by the backing store.
func NewResults(items []Item, total, page, perPage int) Results {
	if items == nil {
		items = []Item{}
	}
	offset := Offset(page, perPage)
	return Results{
		Results: items,
		Total:   total,
		More:    offset < total && len(items) < total-offset,
	}
}
