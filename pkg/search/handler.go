// Package search defines the named search handler contract consumed by the
// autocomplete endpoint, a registry to hold handlers, and pagination helpers
// shared by handler implementations.
package search

import (
	"context"
	"strings"
)

// Default pagination values applied when a request omits them.
const (
	DefaultPage    = 1
	DefaultPerPage = 50
)

// Handler executes a domain-specific paginated text search. The result must
// be JSON serializable; callers never inspect it.
type Handler interface {
	Search(ctx context.Context, query string, page, perPage int) (any, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, query string, page, perPage int) (any, error)

// Search calls f.
func (f HandlerFunc) Search(ctx context.Context, query string, page, perPage int) (any, error) {
	return f(ctx, query, page, perPage)
}

// Request carries validated autocomplete parameters.
type Request struct {
	Name    string
	Query   string
	Page    int
	PerPage int
}

// Normalized trims the name and query.
func (r Request) Normalized() Request {
	r.Name = strings.TrimSpace(r.Name)
	r.Query = strings.TrimSpace(r.Query)
	return r
}
