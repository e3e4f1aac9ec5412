package update

import "github.com/goliatone/go-formflow/pkg/form"

// Outcome is the result of one HandleUpdate call. It is one of Redisplay,
// InlineSaved or RedirectSaved.
type Outcome interface {
	outcome()
}

// Redisplay means the form was not submitted or did not validate. Form
// carries the submitted values and validation messages.
type Redisplay struct {
	Entity any
	Form   form.View
}

// InlineSaved means the entity was saved from a widget context. SavedID is
// nil when the entity exposes no single identifier.
type InlineSaved struct {
	Form    form.View
	Entity  any
	SavedID any
}

// RedirectSaved means the entity was saved from a page context and a
// success notice was queued.
type RedirectSaved struct {
	URL string
}

func (Redisplay) outcome()     {}
func (InlineSaved) outcome()   {}
func (RedirectSaved) outcome() {}
