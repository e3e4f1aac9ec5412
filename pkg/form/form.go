// Package form provides the bound-form abstraction used by the save workflow:
// a form receives an entity, optionally consumes a submitted request, reports
// validity, and produces a renderable View that keeps user input and
// validation messages.
package form

import (
	"net/http"
	"strings"
)

// Form is the contract the save workflow depends on.
type Form interface {
	Name() string
	SetData(data any)
	Data() any
	Submit(r *http.Request) error
	IsSubmitted() bool
	IsValid() bool
	CreateView() View
}

// Field input types understood by the default templates.
const (
	TypeText     = "text"
	TypeEmail    = "email"
	TypeTextarea = "textarea"
	TypeNumber   = "number"
	TypeHidden   = "hidden"
)

// Field declares one bindable input.
type Field struct {
	Name     string
	Label    string
	Type     string
	Required bool
}

// Text declares a required or optional text field.
func Text(name, label string, required bool) Field {
	return Field{Name: name, Label: label, Type: TypeText, Required: required}
}

// Email declares an email field.
func Email(name, label string, required bool) Field {
	return Field{Name: name, Label: label, Type: TypeEmail, Required: required}
}

func (f Field) normalized() Field {
	f.Name = strings.TrimSpace(f.Name)
	f.Label = strings.TrimSpace(f.Label)
	if f.Label == "" {
		f.Label = f.Name
	}
	if f.Type == "" {
		f.Type = TypeText
	}
	return f
}

// Values holds submitted values keyed by field name.
type Values map[string]string

// Get returns the trimmed value for name.
func (v Values) Get(name string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v[name])
}

// Binder copies submitted values into the bound entity.
type Binder func(entity any, values Values) error

// Extractor reads display values from the bound entity for an unsubmitted
// form.
type Extractor func(entity any) Values

// Validator returns messages keyed by field path. Keys that do not resolve
// to a declared field become form-level errors.
type Validator func(entity any, values Values) map[string][]string

// BlankMessage is reported for empty required fields.
const BlankMessage = "This value should not be blank."
