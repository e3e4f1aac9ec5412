package contacts

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/search"
)

// SearchName is the autocomplete handler name contacts register under.
const SearchName = "contacts"

// SearchHandler serves contact suggestions to the autocomplete endpoint.
type SearchHandler struct {
	repo *Repository
}

var _ search.Handler = (*SearchHandler)(nil)

func NewSearchHandler(repo *Repository) *SearchHandler {
	return &SearchHandler{repo: repo}
}

// Search implements search.Handler.
func (h *SearchHandler) Search(ctx context.Context, query string, page, perPage int) (any, error) {
	found, total, err := h.repo.Search(ctx, query, page, perPage)
	if err != nil {
		return nil, err
	}
	items := make([]search.Item, 0, len(found))
	for _, contact := range found {
		items = append(items, search.Item{ID: contact.ID, Text: contact.DisplayName()})
	}
	return search.NewResults(items, int(total), page, perPage), nil
}

// Register adds the handler to registry under SearchName.
func Register(registry *search.Registry, repo *Repository) error {
	return registry.Register(SearchName, NewSearchHandler(repo))
}
