package autocomplete

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/search"
	"github.com/goliatone/go-formflow/pkg/security"
)

const DefaultRoutePath = "/autocomplete/search"

type Options struct {
	RoutePath    string
	NameParam    string
	QueryParam   string
	PageParam    string
	PerPageParam string
	// OpenAPI mounts the endpoint description at RoutePath + "/openapi.json".
	OpenAPI bool

	Registry *search.Registry
	Security *security.Security
	Logger   *zap.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    DefaultRoutePath,
		NameParam:    "name",
		QueryParam:   "query",
		PageParam:    "page",
		PerPageParam: "per_page",
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = DefaultRoutePath
	}
	if opts.NameParam == "" {
		opts.NameParam = "name"
	}
	if opts.QueryParam == "" {
		opts.QueryParam = "query"
	}
	if opts.PageParam == "" {
		opts.PageParam = "page"
	}
	if opts.PerPageParam == "" {
		opts.PerPageParam = "per_page"
	}
	if opts.Registry == nil {
		opts.Registry = search.NewRegistry()
	}
	if opts.Security == nil {
		opts.Security = security.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithQueryParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.QueryParam = name
	}
}

func WithOpenAPI(enabled bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.OpenAPI = enabled
	}
}

func WithRegistry(registry *search.Registry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Registry = registry
	}
}

func WithSecurity(sec *security.Security) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Security = sec
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
