package timezones

import (
	"fmt"

	"github.com/goliatone/go-formflow/pkg/search"
)

// Component wraps the timezone handler and its registration name.
type Component struct {
	opts Options
}

// New constructs a new component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Name returns the registry key.
func (c *Component) Name() string {
	return c.Options().Name
}

// Register adds the handler to registry under the component name.
func (c *Component) Register(registry *search.Registry) error {
	if registry == nil {
		return fmt.Errorf("timezones: missing registry")
	}
	opts := c.Options()
	handler, err := NewHandler(func(o *Options) { *o = opts })
	if err != nil {
		return err
	}
	return registry.Register(opts.Name, handler)
}
