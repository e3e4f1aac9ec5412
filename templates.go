package formflow

import (
	"io/fs"

	"github.com/goliatone/go-formflow/pkg/view"
)

// EmbeddedTemplates exposes the built-in page templates so callers can
// reuse or extend them without importing the view package directly.
func EmbeddedTemplates() fs.FS {
	return view.EmbeddedTemplates()
}
