package view_test

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/testsupport"
	"github.com/goliatone/go-formflow/pkg/view"
)

func invalidView() form.View {
	f := form.New("contact",
		form.WithFields(form.Text("first_name", "First name", true)),
		form.WithAction("POST", "/contacts/new"),
		form.WithHidden(form.CSRFToken("tok")),
	)
	view := f.CreateView()
	view.Submitted = true
	view.Errors = form.ErrorMapping{
		Fields: map[string][]string{"first_name": {form.BlankMessage}},
		Form:   []string{"Try again <soon>"},
	}
	view.Fields[0].Errors = []string{form.BlankMessage}
	view.Fields[0].Value = `<b>"Ana"</b>`
	return view
}

func TestEngine_RendersBundledFormTemplate(t *testing.T) {
	engine, err := view.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	html, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.Render(view.TemplateForm, map[string]any{
			"title":   "New contact",
			"form":    invalidView(),
			"notices": []map[string]string{{"kind": "success", "text": "Saved"}},
		}, w)
	})
	if written != html {
		t.Fatalf("writer output differs from returned html")
	}

	for _, want := range []string{
		`<title>New contact</title>`,
		`name="contact[first_name]"`,
		`id="contact_first_name"`,
		`name="_token" value="tok"`,
		`action="/contacts/new"`,
		form.BlankMessage,
		`Try again &lt;soon&gt;`,
		`value="&lt;b&gt;&quot;Ana&quot;&lt;/b&gt;"`,
		`class="flash flash-success"`,
		`value="save_and_stay"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestEngine_InlineSavedTemplate(t *testing.T) {
	engine, err := view.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	html, err := engine.Render(view.TemplateInlineSaved, map[string]any{
		"savedId": 42,
		"form":    form.New("contact").CreateView(),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `data-saved-id="42"`) || !strings.Contains(html, `"name":"contact"`) {
		t.Fatalf("unexpected inline output:\n%s", html)
	}
}

func TestEngine_ThemeGlobals(t *testing.T) {
	selector := view.NewStaticSelector("acme", "dark", map[string]string{"brand": "#123456"})
	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	engine, err := view.New(
		view.WithTheme(selection),
		view.WithFS(fstest.MapFS{"page.tpl": {Data: []byte(`{{ theme.name }}/{{ theme.variant }}/{{ theme.tokens.brand }}/{{ theme.css_vars }}`)}}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.Render("page", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "acme/dark/#123456/--brand: #123456;" {
		t.Fatalf("unexpected theme output %q", got)
	}
}

func TestThemeContext_VariantOverrides(t *testing.T) {
	ctx := view.ThemeContext(&theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"brand": "#fff", "accent": "#000"},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"brand": "#111"}},
			},
		},
	})
	if ctx["css_vars"] != "--accent: #000; --brand: #111;" {
		t.Fatalf("unexpected css vars %q", ctx["css_vars"])
	}

	if _, err := view.NewStaticSelector("acme", "", nil).Select("other", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}

func TestEngine_RenderStringAndGlobals(t *testing.T) {
	engine, err := view.New(view.WithGlobalData(map[string]any{"site": "Formflow"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := engine.GlobalContext(map[string]any{"year": 2026}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	got, err := engine.Render(`{{ site }} {{ year }} {{ name|trim }}`, map[string]any{"name": "  Ana "})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "Formflow 2026 Ana" {
		t.Fatalf("unexpected output %q", got)
	}
}
