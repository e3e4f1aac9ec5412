package contacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/goliatone/go-formflow/pkg/flash"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/persistence"
	"github.com/goliatone/go-formflow/pkg/search"
	"github.com/goliatone/go-formflow/pkg/testsupport"
	"github.com/goliatone/go-formflow/pkg/view"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testsupport.SQLite(t)
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func seed(t *testing.T, db *gorm.DB, contacts ...Contact) {
	t.Helper()
	for i := range contacts {
		require.NoError(t, db.Create(&contacts[i]).Error)
	}
}

func newTestRouter(t *testing.T, db *gorm.DB) http.Handler {
	t.Helper()
	engine, err := view.New()
	require.NoError(t, err)

	module := NewModule(NewRepository(db), persistence.NewGormStore(db), engine)
	r := chi.NewRouter()
	module.RegisterRoutes(r)
	return r
}

func postContact(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func validValues(action string) url.Values {
	return url.Values{
		"contact[first_name]": {"Ana"},
		"contact[last_name]":  {"Lee"},
		"contact[email]":      {"ana@example.com"},
		"input_action":        {action},
	}
}

func TestSearchHandler_PagesMatchesByID(t *testing.T) {
	db := newTestDB(t)
	seed(t, db,
		Contact{FirstName: "John", LastName: "Smith"},
		Contact{FirstName: "Ana", LastName: "Lee", Email: "ana@example.com"},
		Contact{FirstName: "Johnny", LastName: "Doe"},
	)

	h := NewSearchHandler(NewRepository(db))
	got, err := h.Search(context.Background(), "JOHN", 1, 1)
	require.NoError(t, err)
	require.Equal(t, search.Results{
		Results: []search.Item{{ID: uint(1), Text: "John Smith"}},
		Total:   2,
		More:    true,
	}, got)

	got, err = h.Search(context.Background(), "john", 2, 1)
	require.NoError(t, err)
	require.Equal(t, search.Results{
		Results: []search.Item{{ID: uint(3), Text: "Johnny Doe"}},
		Total:   2,
		More:    false,
	}, got)
}

func TestSearchHandler_MatchesFullNameAndEmail(t *testing.T) {
	db := newTestDB(t)
	seed(t, db,
		Contact{FirstName: "John", LastName: "Smith"},
		Contact{FirstName: "Ana", LastName: "Lee", Email: "ana@example.com"},
	)
	h := NewSearchHandler(NewRepository(db))

	got, err := h.Search(context.Background(), "john sm", 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, got.(search.Results).Total)

	got, err = h.Search(context.Background(), "example.com", 1, 10)
	require.NoError(t, err)
	require.Equal(t, []search.Item{{ID: uint(2), Text: "Ana Lee"}}, got.(search.Results).Results)
}

func TestSearchHandler_EscapesWildcards(t *testing.T) {
	db := newTestDB(t)
	seed(t, db, Contact{FirstName: "John", LastName: "Smith"})

	got, err := NewSearchHandler(NewRepository(db)).Search(context.Background(), "%", 1, 10)
	require.NoError(t, err)
	require.Equal(t, search.Results{Results: []search.Item{}, Total: 0}, got)
}

func TestSearchHandler_FarPastEndPageIsEmpty(t *testing.T) {
	db := newTestDB(t)
	seed(t, db,
		Contact{FirstName: "John", LastName: "Smith"},
		Contact{FirstName: "Johnny", LastName: "Doe"},
	)
	h := NewSearchHandler(NewRepository(db))

	got, err := h.Search(context.Background(), "", 1<<62, 4)
	require.NoError(t, err)
	require.Equal(t, search.Results{Results: []search.Item{}, Total: 2, More: false}, got)

	got, err = h.Search(context.Background(), "john", 3, 1)
	require.NoError(t, err)
	require.Equal(t, search.Results{Results: []search.Item{}, Total: 2, More: false}, got)
}

func TestRegister_AddsContactsHandler(t *testing.T) {
	registry := search.NewRegistry()
	require.NoError(t, Register(registry, NewRepository(newTestDB(t))))
	require.True(t, registry.Has(SearchName))
}

func TestCreate_SaveAndCloseRedirectsToView(t *testing.T) {
	db := newTestDB(t)
	h := newTestRouter(t, db)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postContact("/contacts/new", validValues("save_and_close")))

	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	require.Equal(t, "/contacts/1", rec.Header().Get("Location"))
	require.Contains(t, rec.Header().Get("Set-Cookie"), flash.CookieName)

	var stored Contact
	require.NoError(t, db.First(&stored, 1).Error)
	require.Equal(t, "Ana Lee", stored.DisplayName())
	require.Equal(t, "ana@example.com", stored.Email)
}

func TestEdit_SaveAndStayRedirectsToEdit(t *testing.T) {
	db := newTestDB(t)
	seed(t, db, Contact{FirstName: "John", LastName: "Smith"})
	h := newTestRouter(t, db)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postContact("/contacts/1/edit", validValues("save_and_stay")))

	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	require.Equal(t, "/contacts/1/edit", rec.Header().Get("Location"))

	var count int64
	require.NoError(t, db.Model(&Contact{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreate_InvalidRedisplaysWith422(t *testing.T) {
	db := newTestDB(t)
	h := newTestRouter(t, db)

	values := url.Values{
		"contact[first_name]": {"Ana"},
		"contact[email]":      {"not-an-email"},
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postContact("/contacts/new", values))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, form.BlankMessage)
	require.Contains(t, body, invalidEmailMessage)
	require.Contains(t, body, `value="Ana"`)

	var count int64
	require.NoError(t, db.Model(&Contact{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreate_InvalidJSONViewMatchesGolden(t *testing.T) {
	h := newTestRouter(t, newTestDB(t))

	req := postContact("/contacts/new", url.Values{
		"contact[first_name]": {"Ana"},
		"contact[email]":      {"bad"},
	})
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var payload struct {
		Form form.View `json:"form"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	testsupport.AssertJSONGolden(t, "testdata/invalid_contact_view.json", payload.Form)
}

func TestCreate_InlineWidgetReturnsSavedID(t *testing.T) {
	db := newTestDB(t)
	seed(t, db, Contact{FirstName: "John", LastName: "Smith"})
	h := newTestRouter(t, db)

	values := validValues("save_and_close")
	values.Set(form.WidgetIDField, "7")
	req := postContact("/contacts/new", values)
	req.Header.Set("Accept", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		SavedID int       `json:"savedId"`
		Form    form.View `json:"form"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, 2, payload.SavedID)
	require.Equal(t, FormName, payload.Form.Name)
}

func TestNew_CarriesWidgetIDIntoForm(t *testing.T) {
	h := newTestRouter(t, newTestDB(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/new?_wid=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `name="_wid" value="5"`)
	require.Contains(t, rec.Body.String(), `action="/contacts/new"`)
}

func TestEdit_RendersStoredValuesAndNotices(t *testing.T) {
	db := newTestDB(t)
	seed(t, db, Contact{FirstName: "John", LastName: "Smith", Email: "john@example.com"})
	h := newTestRouter(t, db)

	saved := httptest.NewRecorder()
	h.ServeHTTP(saved, postContact("/contacts/1/edit", url.Values{
		"contact[first_name]": {"John"},
		"contact[last_name]":  {"Smith"},
		"input_action":        {"save_and_stay"},
	}))
	require.Equal(t, http.StatusFound, saved.Code)
	cookie, err := http.ParseSetCookie(saved.Header().Get("Set-Cookie"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/contacts/1/edit", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "<title>Edit John Smith</title>")
	require.Contains(t, body, `value="Smith"`)
	require.Contains(t, body, "Contact saved.")
}

func TestShowAndMissingContacts(t *testing.T) {
	db := newTestDB(t)
	seed(t, db, Contact{FirstName: "John", LastName: "Smith"})
	h := newTestRouter(t, db)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Smith", got.LastName)

	for _, target := range []string{"/contacts/99", "/contacts/abc/edit", "/contacts/0"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}
