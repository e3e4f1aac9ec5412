// Package route describes post-save redirect targets and resolves them to
// URLs.
package route

import (
	"fmt"
	"strings"
)

// Param is one ordered route parameter.
type Param struct {
	Key   string
	Value string
}

// Route is an immutable {name, ordered params} descriptor.
type Route struct {
	Name   string
	params []Param
}

// New builds a Route from alternating key/value pairs. A trailing key without
// a value is ignored.
func New(name string, kv ...any) Route {
	r := Route{Name: strings.TrimSpace(name)}
	for i := 0; i+1 < len(kv); i += 2 {
		key := strings.TrimSpace(fmt.Sprint(kv[i]))
		if key == "" {
			continue
		}
		r.params = append(r.params, Param{Key: key, Value: fmt.Sprint(kv[i+1])})
	}
	return r
}

// Params returns a copy of the ordered parameters.
func (r Route) Params() []Param {
	if len(r.params) == 0 {
		return nil
	}
	return append([]Param(nil), r.params...)
}

// Param returns the value for key.
func (r Route) Param(key string) (string, bool) {
	for _, p := range r.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// IsZero reports whether the route has no name.
func (r Route) IsZero() bool {
	return r.Name == ""
}

func (r Route) String() string {
	if len(r.params) == 0 {
		return r.Name
	}
	parts := make([]string, 0, len(r.params))
	for _, p := range r.params {
		parts = append(parts, p.Key+"="+p.Value)
	}
	return r.Name + "(" + strings.Join(parts, ", ") + ")"
}
