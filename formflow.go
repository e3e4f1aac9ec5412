// Package formflow bundles the form glue used by the sample application: a
// generic save workflow for entities bound to forms, and an authorized
// autocomplete endpoint dispatching to named search handlers.
package formflow

import (
	"net/http"

	"github.com/goliatone/go-formflow/components/autocomplete"
	"github.com/goliatone/go-formflow/pkg/persistence"
	"github.com/goliatone/go-formflow/pkg/route"
	"github.com/goliatone/go-formflow/pkg/search"
	"github.com/goliatone/go-formflow/pkg/update"
)

// Outcome is the result of one save attempt; alias exported via the root
// package for convenience.
type Outcome = update.Outcome

// Redisplay, InlineSaved and RedirectSaved are the Outcome variants.
type (
	Redisplay     = update.Redisplay
	InlineSaved   = update.InlineSaved
	RedirectSaved = update.RedirectSaved
)

// SearchHandler answers autocomplete queries for one registered name.
type SearchHandler = search.Handler

// SearchResults is the common paginated payload.
type SearchResults = search.Results

// Route names a redirect target and its parameters.
type Route = route.Route

// NewRegistry returns an empty search handler registry.
func NewRegistry() *search.Registry {
	return search.NewRegistry()
}

// NewRoute exposes the route descriptor constructor from the top-level
// module.
func NewRoute(name string, kv ...any) Route {
	return route.New(name, kv...)
}

// NewUpdateHandler binds the save workflow to r.
func NewUpdateHandler(r *http.Request, flashes update.FlashSink, router update.Redirector, store persistence.Store, opts ...update.Option) *update.Handler {
	return update.New(r, flashes, router, store, opts...)
}

// NewAutocomplete constructs the autocomplete component.
func NewAutocomplete(options ...autocomplete.OptionFn) *autocomplete.Component {
	return autocomplete.New(options...)
}
