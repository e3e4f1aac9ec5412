package route

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/form"
)

// Button values posted in InputActionParam.
const (
	InputActionParam   = "input_action"
	ActionSaveAndStay  = "save_and_stay"
	ActionSaveAndClose = "save_and_close"
)

// IdentifierPlaceholder as a param value is replaced with the saved
// entity's identifier.
const IdentifierPlaceholder = "$id"

// ErrUnknownRoute is returned when generating a URL for an unregistered name.
var ErrUnknownRoute = errors.New("route: unknown route")

// IdentifierFunc resolves the identifier of a saved entity.
type IdentifierFunc func(entity any) (any, error)

// Router maps route names to path patterns such as "/contacts/{id}/edit".
type Router struct {
	mu         sync.RWMutex
	patterns   map[string]string
	identifier IdentifierFunc
}

// NewRouter builds an empty Router. identifier may be nil when no route uses
// IdentifierPlaceholder.
func NewRouter(identifier IdentifierFunc) *Router {
	return &Router{
		patterns:   make(map[string]string),
		identifier: identifier,
	}
}

// Add registers pattern under name, replacing any previous pattern.
func (r *Router) Add(name, pattern string) *Router {
	name = strings.TrimSpace(name)
	pattern = strings.TrimSpace(pattern)
	if name == "" || pattern == "" {
		return r
	}
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	r.mu.Lock()
	r.patterns[name] = pattern
	r.mu.Unlock()
	return r
}

// Generate builds the URL for route. Params matching a `{key}` placeholder
// fill the path; the rest become query parameters in declaration order.
func (r *Router) Generate(route Route) (string, error) {
	r.mu.RLock()
	pattern, ok := r.patterns[route.Name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, route.Name)
	}

	path := pattern
	var query []string
	for _, p := range route.params {
		placeholder := "{" + p.Key + "}"
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, url.PathEscape(p.Value))
			continue
		}
		query = append(query, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	if start := strings.Index(path, "{"); start >= 0 {
		if end := strings.Index(path[start:], "}"); end > 0 {
			return "", fmt.Errorf("route: %q missing parameter %q", route.Name, path[start+1:start+end])
		}
	}
	if len(query) > 0 {
		path += "?" + strings.Join(query, "&")
	}
	return path, nil
}

// RedirectAfterSave picks stay when the request asked to stay on the page
// ("save and continue"), close otherwise, and resolves it to a URL.
func (r *Router) RedirectAfterSave(req *http.Request, stay, close Route, entity any) (string, error) {
	target := close
	if form.RequestValue(req, InputActionParam) == ActionSaveAndStay {
		target = stay
	}

	resolved, err := r.resolveIdentifier(target, entity)
	if err != nil {
		return "", err
	}
	return r.Generate(resolved)
}

func (r *Router) resolveIdentifier(target Route, entity any) (Route, error) {
	needsID := false
	for _, p := range target.params {
		if p.Value == IdentifierPlaceholder {
			needsID = true
			break
		}
	}
	if !needsID {
		return target, nil
	}
	if r.identifier == nil {
		return Route{}, fmt.Errorf("route: %q needs an identifier resolver", target.Name)
	}
	id, err := r.identifier(entity)
	if err != nil {
		return Route{}, fmt.Errorf("route: resolve identifier for %q: %w", target.Name, err)
	}

	out := Route{Name: target.Name, params: make([]Param, 0, len(target.params))}
	for _, p := range target.params {
		if p.Value == IdentifierPlaceholder {
			p.Value = fmt.Sprint(id)
		}
		out.params = append(out.params, p)
	}
	return out, nil
}
