package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formflow/pkg/form"
)

func TestMapErrors_PathVariants(t *testing.T) {
	fields := []string{"name", "email", "tags"}

	payload := map[string][]string{
		"/body/name":          {"Name is required"},
		"data.email":          {"Email invalid", " Email invalid "},
		"$.body.tags[0]":      {"Tags must be unique"},
		"non_field_errors":    {"Form level error"},
		"request/body/phone":  {"Should fall back to form errors"},
		"":                    {"Unscoped form error"},
		"name":                {"<b>Too</b> short"},
		"children[email]":     {"Domain is blocked"},
		"children[unknown]":   {"   "},
	}

	mapped := form.MapErrors(fields, payload)

	wantFields := map[string][]string{
		"name":  {"Name is required", "Too short"},
		"email": {"Email invalid", "Domain is blocked"},
		"tags":  {"Tags must be unique"},
	}
	sortStrings := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	if diff := cmp.Diff(wantFields, mapped.Fields, sortStrings); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, sortStrings); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrors_EmptyPayload(t *testing.T) {
	mapped := form.MapErrors([]string{"name"}, nil)
	if !mapped.Empty() {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := form.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestStripTags_DecodesEntities(t *testing.T) {
	if got := form.StripTags(`<script>x</script>Can't be "empty"`); got != `Can't be "empty"` {
		t.Fatalf("unexpected stripped message: %q", got)
	}
}

func TestMergeAndSortHiddenFields(t *testing.T) {
	merged := form.MergeHiddenFields(map[string]string{" existing ": "keep", "": "ignored"},
		form.CSRFToken("token123"),
		form.WidgetID("42"),
		form.Hidden("  ", "skip"),
	)

	wantSorted := []form.HiddenField{
		{Name: "_token", Value: "token123"},
		{Name: "_wid", Value: "42"},
		{Name: "existing", Value: "keep"},
	}
	if diff := cmp.Diff(wantSorted, form.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}
