package route_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/route"
)

type record struct{ ID int }

func newRouter() *route.Router {
	r := route.NewRouter(func(entity any) (any, error) {
		rec, ok := entity.(*record)
		if !ok || rec.ID == 0 {
			return nil, errors.New("no id")
		}
		return rec.ID, nil
	})
	r.Add("contact_edit", "/contacts/{id}/edit")
	r.Add("contact_list", "contacts")
	return r
}

func TestNew_OrderedParams(t *testing.T) {
	rt := route.New("contact_list", "page", 2, "sort", "name", "dangling")

	want := []route.Param{{Key: "page", Value: "2"}, {Key: "sort", Value: "name"}}
	if diff := cmp.Diff(want, rt.Params()); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
	if got := rt.String(); got != "contact_list(page=2, sort=name)" {
		t.Fatalf("unexpected string form %q", got)
	}

	params := rt.Params()
	params[0].Value = "9"
	if got, _ := rt.Param("page"); got != "2" {
		t.Fatalf("expected route to stay unchanged, got page=%q", got)
	}
}

func TestGenerate(t *testing.T) {
	r := newRouter()

	got, err := r.Generate(route.New("contact_edit", "id", 7, "tab", "notes"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "/contacts/7/edit?tab=notes" {
		t.Fatalf("unexpected url %q", got)
	}

	if _, err := r.Generate(route.New("missing")); !errors.Is(err, route.ErrUnknownRoute) {
		t.Fatalf("expected ErrUnknownRoute, got %v", err)
	}
	if _, err := r.Generate(route.New("contact_edit")); err == nil {
		t.Fatalf("expected error for unfilled placeholder")
	}
}

func TestRedirectAfterSave_DefaultsToClose(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodPost, "/contacts/new", nil)

	got, err := r.RedirectAfterSave(req,
		route.New("contact_edit", "id", route.IdentifierPlaceholder),
		route.New("contact_list"),
		&record{ID: 3},
	)
	if err != nil {
		t.Fatalf("redirect: %v", err)
	}
	if got != "/contacts" {
		t.Fatalf("expected close route, got %q", got)
	}
}

func TestRedirectAfterSave_SaveAndStayResolvesIdentifier(t *testing.T) {
	r := newRouter()
	body := url.Values{route.InputActionParam: {route.ActionSaveAndStay}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/contacts/new", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, err := r.RedirectAfterSave(req,
		route.New("contact_edit", "id", route.IdentifierPlaceholder),
		route.New("contact_list"),
		&record{ID: 3},
	)
	if err != nil {
		t.Fatalf("redirect: %v", err)
	}
	if got != "/contacts/3/edit" {
		t.Fatalf("expected stay route, got %q", got)
	}
}

func TestRedirectAfterSave_IdentifierFailure(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodPost, "/contacts/new?input_action=save_and_stay", nil)

	_, err := r.RedirectAfterSave(req,
		route.New("contact_edit", "id", route.IdentifierPlaceholder),
		route.New("contact_list"),
		&record{},
	)
	if err == nil {
		t.Fatalf("expected identifier resolution error")
	}
}
