// Package autocomplete exposes named search handlers over a single HTTP
// endpoint consumed by select-style form widgets.
//
// Requests name a handler (`name`), an optional free-text `query` and a
// `page`/`per_page` window. Parameters are validated in a fixed order
// (name, page, per_page), then access to the named handler is checked, and
// only then is the handler resolved from the registry and invoked. The
// handler result is written verbatim as JSON.
package autocomplete
