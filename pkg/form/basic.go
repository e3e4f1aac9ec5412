package form

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Basic is a declarative Form: a field list plus binder, extractor and
// validator callbacks. A Basic instance is bound to one request.
type Basic struct {
	name      string
	method    string
	action    string
	fields    []Field
	binder    Binder
	extractor Extractor
	validator Validator
	hidden    map[string]string

	data      any
	submitted bool
	values    Values
	errors    ErrorMapping
}

// Option configures a Basic form.
type Option func(*Basic)

// WithFields appends field declarations.
func WithFields(fields ...Field) Option {
	return func(b *Basic) {
		for _, field := range fields {
			field = field.normalized()
			if field.Name == "" {
				continue
			}
			b.fields = append(b.fields, field)
		}
	}
}

// WithBinder sets the callback that copies submitted values into the entity.
func WithBinder(binder Binder) Option {
	return func(b *Basic) {
		b.binder = binder
	}
}

// WithExtractor sets the callback that reads display values from the entity.
func WithExtractor(extractor Extractor) Option {
	return func(b *Basic) {
		b.extractor = extractor
	}
}

// WithValidator sets the callback producing validation messages.
func WithValidator(validator Validator) Option {
	return func(b *Basic) {
		b.validator = validator
	}
}

// WithAction sets the method and action rendered in the view.
func WithAction(method, action string) Option {
	return func(b *Basic) {
		if method = strings.ToUpper(strings.TrimSpace(method)); method != "" {
			b.method = method
		}
		b.action = strings.TrimSpace(action)
	}
}

// WithHidden adds hidden inputs to the view.
func WithHidden(fields ...HiddenField) Option {
	return func(b *Basic) {
		b.hidden = MergeHiddenFields(b.hidden, fields...)
	}
}

// New builds a Basic form called name.
func New(name string, opts ...Option) *Basic {
	b := &Basic{
		name:   strings.TrimSpace(name),
		method: http.MethodPost,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Name implements Form.
func (b *Basic) Name() string { return b.name }

// SetData implements Form.
func (b *Basic) SetData(data any) { b.data = data }

// Data implements Form.
func (b *Basic) Data() any { return b.data }

// IsSubmitted implements Form.
func (b *Basic) IsSubmitted() bool { return b.submitted }

// IsValid implements Form. An unsubmitted form is never valid.
func (b *Basic) IsValid() bool {
	return b.submitted && b.errors.Empty()
}

// Errors returns the current validation messages.
func (b *Basic) Errors() ErrorMapping { return b.errors }

// Submit reads the request payload, binds declared fields into the bound
// entity and validates it. An unreadable body leaves the form submitted and
// invalid with a form-level error.
func (b *Basic) Submit(r *http.Request) error {
	b.submitted = true
	b.errors = ErrorMapping{}

	values, err := readValues(r, b.name)
	if err != nil {
		b.values = Values{}
		b.errors = ErrorMapping{Form: []string{"The submitted data could not be read."}}
		return err
	}

	if wid := values.Get(WidgetIDField); wid != "" {
		b.hidden = MergeHiddenFields(b.hidden, WidgetID(wid))
	}

	bound := make(Values, len(b.fields))
	for _, field := range b.fields {
		bound[field.Name] = values.Get(field.Name)
	}
	b.values = bound

	payload := make(map[string][]string)
	for _, field := range b.fields {
		if field.Required && bound.Get(field.Name) == "" {
			payload[field.Name] = append(payload[field.Name], BlankMessage)
		}
	}

	if b.binder != nil && b.data != nil {
		if err := b.binder(b.data, bound); err != nil {
			var fieldErr FieldError
			if errors.As(err, &fieldErr) {
				payload[fieldErr.Field] = append(payload[fieldErr.Field], fieldErr.Message)
			} else {
				payload["form"] = append(payload["form"], err.Error())
			}
		}
	}

	if b.validator != nil {
		for path, messages := range b.validator(b.data, bound) {
			payload[path] = append(payload[path], messages...)
		}
	}

	b.errors = MapErrors(b.fieldNames(), payload)
	return nil
}

// CreateView implements Form. Submitted values win over entity values so
// user input survives a redisplay.
func (b *Basic) CreateView() View {
	values := b.values
	if !b.submitted && b.extractor != nil && b.data != nil {
		values = b.extractor(b.data)
	}

	view := View{
		Name:      b.name,
		Method:    b.method,
		Action:    b.action,
		Values:    make(map[string]string, len(b.fields)),
		Errors:    b.errors,
		Hidden:    SortedHiddenFields(b.hidden),
		Submitted: b.submitted,
		Valid:     b.IsValid(),
		Fields:    make([]FieldView, 0, len(b.fields)),
	}
	for _, field := range b.fields {
		value := values.Get(field.Name)
		view.Values[field.Name] = value
		view.Fields = append(view.Fields, FieldView{
			Name:     field.Name,
			FullName: fullName(b.name, field.Name),
			ID:       fieldID(b.name, field.Name),
			Label:    field.Label,
			Type:     field.Type,
			Required: field.Required,
			Value:    value,
			Errors:   b.errors.For(field.Name),
		})
	}
	return view
}

func (b *Basic) fieldNames() []string {
	names := make([]string, 0, len(b.fields))
	for _, field := range b.fields {
		names = append(names, field.Name)
	}
	return names
}

// FieldError lets a Binder attach a conversion failure to one field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("form: %s: %s", e.Field, e.Message)
}

func fullName(formName, field string) string {
	if formName == "" {
		return field
	}
	return formName + "[" + field + "]"
}

func fieldID(formName, field string) string {
	if formName == "" {
		return field
	}
	return formName + "_" + field
}
