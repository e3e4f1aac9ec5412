package update

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formflow/pkg/flash"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/view"
)

// Respond writes outcome to w. Redisplay renders the form page (422 when
// the submission was invalid), InlineSaved renders the widget payload and
// RedirectSaved issues a 302. JSON clients receive JSON bodies instead of
// templates. extra is merged into the template data.
func Respond(w http.ResponseWriter, r *http.Request, outcome Outcome, renderer view.Renderer, extra map[string]any) error {
	switch o := outcome.(type) {
	case RedirectSaved:
		http.Redirect(w, r, o.URL, http.StatusFound)
		return nil

	case InlineSaved:
		if wantsJSON(r) {
			return writeJSON(w, http.StatusOK, map[string]any{
				"savedId": o.SavedID,
				"form":    o.Form,
			})
		}
		return render(w, http.StatusOK, renderer, view.TemplateInlineSaved, merge(extra, map[string]any{
			"savedId": o.SavedID,
			"form":    o.Form,
			"entity":  o.Entity,
		}))

	case Redisplay:
		status := statusFor(o.Form)
		if wantsJSON(r) {
			return writeJSON(w, status, map[string]any{"form": o.Form})
		}
		return render(w, status, renderer, view.TemplateForm, merge(extra, map[string]any{
			"form":    o.Form,
			"entity":  o.Entity,
			"notices": flash.ReadAndClear(w, r),
		}))

	default:
		return fmt.Errorf("update: unknown outcome %T", outcome)
	}
}

func statusFor(v form.View) int {
	if v.Invalid() {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func render(w http.ResponseWriter, status int, renderer view.Renderer, name string, data map[string]any) error {
	if renderer == nil {
		return fmt.Errorf("update: no renderer for %q", name)
	}
	var buf bytes.Buffer
	if _, err := renderer.Render(name, data, &buf); err != nil {
		return fmt.Errorf("update: render %q: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

func writeJSON(w http.ResponseWriter, status int, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("update: encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

func merge(extra, data map[string]any) map[string]any {
	out := make(map[string]any, len(extra)+len(data))
	for key, value := range extra {
		out[key] = value
	}
	for key, value := range data {
		out[key] = value
	}
	return out
}

func wantsJSON(r *http.Request) bool {
	if r == nil {
		return false
	}
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "application/json" {
		return true
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		if mediaType, _, _ := mime.ParseMediaType(strings.TrimSpace(part)); mediaType == "application/json" {
			return true
		}
	}
	return false
}
