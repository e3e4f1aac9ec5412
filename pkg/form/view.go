package form

// View is the renderable snapshot of a form. It is JSON serializable so
// inline widget shells can consume it directly.
type View struct {
	Name      string            `json:"name"`
	Method    string            `json:"method,omitempty"`
	Action    string            `json:"action,omitempty"`
	Fields    []FieldView       `json:"fields"`
	Values    map[string]string `json:"values,omitempty"`
	Errors    ErrorMapping      `json:"errors"`
	Hidden    []HiddenField     `json:"hidden,omitempty"`
	Submitted bool              `json:"submitted"`
	Valid     bool              `json:"valid"`
}

// FieldView is the per-field portion of a View.
type FieldView struct {
	Name     string   `json:"name"`
	FullName string   `json:"fullName"`
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Value    string   `json:"value"`
	Errors   []string `json:"errors,omitempty"`
}

// Invalid reports whether a submitted form failed validation.
func (v View) Invalid() bool {
	return v.Submitted && !v.Valid
}
