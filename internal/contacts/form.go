package contacts

import (
	"fmt"
	"net/mail"

	"github.com/goliatone/go-formflow/pkg/form"
)

// FormName prefixes submitted field names (contact[first_name]).
const FormName = "contact"

const invalidEmailMessage = "This value is not a valid email address."

// NewForm builds the contact form posting to action.
func NewForm(action string) *form.Basic {
	return form.New(FormName,
		form.WithAction("POST", action),
		form.WithFields(
			form.Text("first_name", "First name", true),
			form.Text("last_name", "Last name", true),
			form.Email("email", "Email", false),
		),
		form.WithExtractor(extract),
		form.WithBinder(bind),
		form.WithValidator(validate),
	)
}

func extract(entity any) form.Values {
	contact, ok := entity.(*Contact)
	if !ok || contact == nil {
		return form.Values{}
	}
	return form.Values{
		"first_name": contact.FirstName,
		"last_name":  contact.LastName,
		"email":      contact.Email,
	}
}

func bind(entity any, values form.Values) error {
	contact, ok := entity.(*Contact)
	if !ok || contact == nil {
		return fmt.Errorf("contacts: cannot bind %T", entity)
	}
	contact.FirstName = values.Get("first_name")
	contact.LastName = values.Get("last_name")
	contact.Email = values.Get("email")
	return nil
}

func validate(_ any, values form.Values) map[string][]string {
	email := values.Get("email")
	if email == "" {
		return nil
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return map[string][]string{"email": {invalidEmailMessage}}
	}
	return nil
}
