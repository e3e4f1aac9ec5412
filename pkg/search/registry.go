package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrHandlerNotFound is returned when a name has no registered handler. A miss
// is a wiring defect, not a client error.
var ErrHandlerNotFound = errors.New("search: handler not found")

// Registry stores search handlers by name. It is populated during startup and
// only read afterwards.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler under name. Empty names and duplicates return an
// error.
func (r *Registry) Register(name string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("search: handler is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("search: handler name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("search: handler %q already registered", name)
	}

	r.handlers[name] = handler
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, handler Handler) {
	if err := r.Register(name, handler); err != nil {
		panic(err)
	}
}

// Get retrieves a handler by name.
func (r *Registry) Get(name string) (Handler, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrHandlerNotFound, name)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrHandlerNotFound, name)
	}
	return handler, nil
}

// List returns a sorted list of handler names.
func (r *Registry) List() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a handler is registered.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.handlers[name]
	return ok
}

// Validate checks that every referenced name resolves to a registered
// handler. Call it once at boot with the names found in configuration so a
// missing handler fails startup instead of a request.
func (r *Registry) Validate(names ...string) error {
	var missing []string
	for _, name := range names {
		if !r.Has(strings.TrimSpace(name)) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrHandlerNotFound, strings.Join(missing, ", "))
}
