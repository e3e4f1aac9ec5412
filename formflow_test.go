package formflow

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-formflow/components/autocomplete"
	"github.com/goliatone/go-formflow/pkg/search"
)

func TestEmbeddedTemplatesContainsPages(t *testing.T) {
	fsys := EmbeddedTemplates()
	for _, name := range []string{"form.tpl", "inline_saved.tpl"} {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			t.Fatalf("expected %s to be readable: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("expected %s to have content", name)
		}
	}
}

func TestNewAutocompleteServesRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister("colors", search.HandlerFunc(func(_ context.Context, query string, page, perPage int) (any, error) {
		return search.Paginate([]search.Item{{ID: "red", Text: "Red"}}, page, perPage), nil
	}))

	mux := http.NewServeMux()
	if _, err := NewAutocomplete(autocomplete.WithRegistry(registry)).RegisterRoutes(mux, "/"); err != nil {
		t.Fatalf("register routes: %v", err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/autocomplete/search?name=colors", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"text":"Red"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestNewRouteFormatsParams(t *testing.T) {
	if got := NewRoute("contact_edit", "id", 3).String(); got != "contact_edit(id=3)" {
		t.Fatalf("unexpected route %q", got)
	}
}
