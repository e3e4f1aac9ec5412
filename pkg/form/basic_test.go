package form_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/form"
)

type person struct {
	Name  string
	Email string
	Age   string
}

func personForm() *form.Basic {
	return form.New("person",
		form.WithFields(
			form.Text("name", "Name", true),
			form.Email("email", "Email", false),
		),
		form.WithBinder(func(entity any, values form.Values) error {
			p := entity.(*person)
			p.Name = values.Get("name")
			p.Email = values.Get("email")
			return nil
		}),
		form.WithExtractor(func(entity any) form.Values {
			p := entity.(*person)
			return form.Values{"name": p.Name, "email": p.Email}
		}),
		form.WithValidator(func(_ any, values form.Values) map[string][]string {
			if email := values.Get("email"); email != "" && !strings.Contains(email, "@") {
				return map[string][]string{"email": {"This value is not a valid email address."}}
			}
			return nil
		}),
	)
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/people", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestBasic_UnsubmittedViewUsesEntityValues(t *testing.T) {
	f := personForm()
	f.SetData(&person{Name: "Ana", Email: "ana@example.com"})

	if f.IsValid() {
		t.Fatalf("unsubmitted form must not be valid")
	}
	view := f.CreateView()
	want := map[string]string{"name": "Ana", "email": "ana@example.com"}
	if diff := cmp.Diff(want, view.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if view.Submitted || view.Invalid() {
		t.Fatalf("unexpected view flags: %+v", view)
	}
}

func TestBasic_SubmitBracketedValuesBindsEntity(t *testing.T) {
	entity := &person{}
	f := personForm()
	f.SetData(entity)

	err := f.Submit(postForm(url.Values{
		"person[name]":  {" Ana "},
		"person[email]": {"ana@example.com"},
		"_wid":          {"42"},
	}))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !f.IsValid() {
		t.Fatalf("expected valid form, errors: %+v", f.Errors())
	}
	if entity.Name != "Ana" || entity.Email != "ana@example.com" {
		t.Fatalf("entity not bound: %+v", entity)
	}

	view := f.CreateView()
	if diff := cmp.Diff([]form.HiddenField{{Name: "_wid", Value: "42"}}, view.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
	if view.Fields[0].FullName != "person[name]" || view.Fields[0].ID != "person_name" {
		t.Fatalf("unexpected field naming: %+v", view.Fields[0])
	}
}

func TestBasic_InvalidSubmissionKeepsUserInput(t *testing.T) {
	entity := &person{}
	f := personForm()
	f.SetData(entity)

	if err := f.Submit(postForm(url.Values{"email": {"not-an-email"}})); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if f.IsValid() {
		t.Fatalf("expected invalid form")
	}

	view := f.CreateView()
	if !view.Invalid() {
		t.Fatalf("expected invalid view")
	}
	if view.Values["email"] != "not-an-email" {
		t.Fatalf("expected submitted value to survive, got %q", view.Values["email"])
	}
	wantErrors := map[string][]string{
		"name":  {form.BlankMessage},
		"email": {"This value is not a valid email address."},
	}
	if diff := cmp.Diff(wantErrors, view.Errors.Fields); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{form.BlankMessage}, view.Fields[0].Errors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestBasic_SubmitJSONNestedUnderFormName(t *testing.T) {
	entity := &person{}
	f := personForm()
	f.SetData(entity)

	req := httptest.NewRequest(http.MethodPut, "/people/1", strings.NewReader(`{"person":{"name":"Bo","email":null}}`))
	req.Header.Set("Content-Type", "application/json")

	if err := f.Submit(req); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !f.IsValid() || entity.Name != "Bo" {
		t.Fatalf("expected JSON submission to bind, entity=%+v errors=%+v", entity, f.Errors())
	}
}

func TestBasic_SubmitJSONKeepsTopLevelWidgetID(t *testing.T) {
	f := personForm()
	f.SetData(&person{})

	req := httptest.NewRequest(http.MethodPost, "/people", strings.NewReader(`{"person":{"name":"Bo"},"_wid":42}`))
	req.Header.Set("Content-Type", "application/json")

	if err := f.Submit(req); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff([]form.HiddenField{{Name: "_wid", Value: "42"}}, f.CreateView().Hidden); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestBasic_UnreadableBodyIsInvalid(t *testing.T) {
	f := personForm()
	f.SetData(&person{})

	req := httptest.NewRequest(http.MethodPost, "/people", strings.NewReader(`{"person": nope}`))
	req.Header.Set("Content-Type", "application/json")

	err := f.Submit(req)
	if !errors.Is(err, form.ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
	if f.IsValid() {
		t.Fatalf("expected invalid form")
	}
	if len(f.Errors().Form) != 1 {
		t.Fatalf("expected a form-level error, got %+v", f.Errors())
	}
}

func TestBasic_BinderFieldErrorAttachesToField(t *testing.T) {
	f := form.New("person",
		form.WithFields(form.Field{Name: "age", Type: form.TypeNumber}),
		form.WithBinder(func(any, form.Values) error {
			return form.FieldError{Field: "age", Message: "This value should be a number."}
		}),
	)
	f.SetData(&person{})

	if err := f.Submit(postForm(url.Values{"age": {"abc"}})); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff([]string{"This value should be a number."}, f.Errors().For("age")); diff != "" {
		t.Fatalf("field error mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestValue_QueryThenBody(t *testing.T) {
	req := postForm(url.Values{"_wid": {"body"}})
	if got := form.RequestValue(req, "_wid"); got != "body" {
		t.Fatalf("expected body value, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/people?_wid=query", nil)
	if got := form.RequestValue(req, "_wid"); got != "query" {
		t.Fatalf("expected query value, got %q", got)
	}
}
