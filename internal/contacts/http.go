package contacts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/flash"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/persistence"
	"github.com/goliatone/go-formflow/pkg/route"
	"github.com/goliatone/go-formflow/pkg/update"
	"github.com/goliatone/go-formflow/pkg/view"
)

// Route names registered on the module router.
const (
	RouteNew  = "contact_new"
	RouteEdit = "contact_edit"
	RouteView = "contact_view"
)

var (
	stayRoute  = route.New(RouteEdit, "id", route.IdentifierPlaceholder)
	closeRoute = route.New(RouteView, "id", route.IdentifierPlaceholder)
)

// Module serves the contact pages.
type Module struct {
	repo     *Repository
	store    persistence.Store
	router   *route.Router
	renderer view.Renderer
	logger   *zap.Logger
}

// ModuleOption configures a Module.
type ModuleOption func(*Module)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *zap.Logger) ModuleOption {
	return func(m *Module) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewModule wires the contact pages to repo, store and renderer.
func NewModule(repo *Repository, store persistence.Store, renderer view.Renderer, opts ...ModuleOption) *Module {
	m := &Module{
		repo:     repo,
		store:    store,
		renderer: renderer,
		logger:   zap.NewNop(),
		router: route.NewRouter(store.SingleIdentifier).
			Add(RouteNew, "/contacts/new").
			Add(RouteEdit, "/contacts/{id}/edit").
			Add(RouteView, "/contacts/{id}"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Router exposes the named routes used for redirects.
func (m *Module) Router() *route.Router {
	return m.router
}

// RegisterRoutes mounts the contact pages on r.
func (m *Module) RegisterRoutes(r chi.Router) {
	r.Get("/contacts/new", m.handleNew)
	r.Post("/contacts/new", m.handleNew)
	r.Get("/contacts/{id}/edit", m.handleEdit)
	r.Post("/contacts/{id}/edit", m.handleEdit)
	r.Put("/contacts/{id}/edit", m.handleEdit)
	r.Get("/contacts/{id}", m.handleShow)
}

func (m *Module) handleNew(w http.ResponseWriter, r *http.Request) {
	action, err := m.router.Generate(route.New(RouteNew))
	if err != nil {
		m.fail(w, r, err)
		return
	}
	m.save(w, r, &Contact{}, m.newForm(r, action), "New contact", "Contact created.")
}

func (m *Module) handleEdit(w http.ResponseWriter, r *http.Request) {
	contact, ok := m.load(w, r)
	if !ok {
		return
	}
	action, err := m.router.Generate(route.New(RouteEdit, "id", contact.ID))
	if err != nil {
		m.fail(w, r, err)
		return
	}
	m.save(w, r, contact, m.newForm(r, action), "Edit "+contact.DisplayName(), "Contact saved.")
}

func (m *Module) handleShow(w http.ResponseWriter, r *http.Request) {
	contact, ok := m.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(contact); err != nil {
		m.logger.Warn("contacts: encode response", zap.Error(err))
	}
}

// newForm carries a widget id from the query string into the rendered form
// so the inline shell survives the first round trip.
func (m *Module) newForm(r *http.Request, action string) *form.Basic {
	f := NewForm(action)
	if wid := r.URL.Query().Get(form.WidgetIDField); wid != "" {
		form.WithHidden(form.WidgetID(wid))(f)
	}
	return f
}

func (m *Module) save(w http.ResponseWriter, r *http.Request, contact *Contact, f form.Form, title, message string) {
	handler := update.New(r, flash.NewBag(w, r), m.router, m.store, update.WithLogger(m.logger))
	outcome, err := handler.HandleUpdate(r.Context(), contact, f, stayRoute, closeRoute, message, nil)
	if err != nil {
		m.fail(w, r, err)
		return
	}
	if err := update.Respond(w, r, outcome, m.renderer, map[string]any{"title": title}); err != nil {
		m.logger.Error("contacts: render response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func (m *Module) load(w http.ResponseWriter, r *http.Request) (*Contact, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 0)
	if err != nil || id == 0 {
		http.NotFound(w, r)
		return nil, false
	}
	contact, err := m.repo.Find(r.Context(), uint(id))
	if errors.Is(err, ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		m.fail(w, r, err)
		return nil, false
	}
	return contact, true
}

func (m *Module) fail(w http.ResponseWriter, r *http.Request, err error) {
	m.logger.Error("contacts: request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
