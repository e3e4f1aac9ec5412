package timezones

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-formflow/pkg/search"
)

// Match returns the zones containing query, prefix matches first and each
// group sorted by name. An empty query yields every zone only with
// EmptySearchAll.
func Match(zones []string, query string, mode EmptySearchMode) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		if mode == EmptySearchAll {
			return append([]string{}, zones...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedZone, 0, 32)
	for _, zone := range zones {
		lowerZone := strings.ToLower(zone)
		if !strings.Contains(lowerZone, q) {
			continue
		}
		matches = append(matches, matchedZone{
			name:     zone,
			isPrefix: strings.HasPrefix(lowerZone, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].name < matches[j].name
	})

	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.name)
	}
	return out
}

type matchedZone struct {
	name     string
	isPrefix bool
}

// Handler is the timezone search.Handler. Results use the zone name as both
// id and text.
type Handler struct {
	zones []string
	mode  EmptySearchMode
}

var _ search.Handler = (*Handler)(nil)

// NewHandler builds a handler over opts.Zones, or the embedded list when
// none are given.
func NewHandler(fns ...OptionFn) (*Handler, error) {
	opts := NewOptions(fns...)
	zones := opts.Zones
	if zones == nil {
		loaded, err := DefaultZones()
		if err != nil {
			return nil, err
		}
		zones = loaded
	}
	return &Handler{zones: zones, mode: opts.EmptySearchMode}, nil
}

// Search implements search.Handler.
func (h *Handler) Search(_ context.Context, query string, page, perPage int) (any, error) {
	matched := Match(h.zones, query, h.mode)
	items := make([]search.Item, 0, len(matched))
	for _, zone := range matched {
		items = append(items, search.Item{ID: zone, Text: zone})
	}
	return search.Paginate(items, page, perPage), nil
}
