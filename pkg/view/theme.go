package view

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeContext flattens a selection into the `theme` template global:
// name, variant, tokens (variant overrides applied) and css_vars derived
// from the tokens. A nil selection yields empty values.
func ThemeContext(selection *theme.Selection) map[string]any {
	tokens := map[string]string{}
	out := map[string]any{
		"name":     "",
		"variant":  "",
		"tokens":   tokens,
		"css_vars": "",
	}
	if selection == nil {
		return out
	}
	out["name"] = selection.Theme
	out["variant"] = selection.Variant

	if manifest := selection.Manifest; manifest != nil {
		for key, value := range manifest.Tokens {
			tokens[key] = value
		}
		if variant, ok := manifest.Variants[selection.Variant]; ok {
			for key, value := range variant.Tokens {
				tokens[key] = value
			}
		}
	}
	out["css_vars"] = cssVars(tokens)
	return out
}

func cssVars(tokens map[string]string) string {
	keys := make([]string, 0, len(tokens))
	for key := range tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		fmt.Fprintf(&b, "--%s: %s; ", name, strings.TrimSpace(tokens[key]))
	}
	return strings.TrimSpace(b.String())
}

// StaticSelector serves one manifest regardless of the requested name.
type StaticSelector struct {
	Manifest       *theme.Manifest
	DefaultVariant string
}

var _ theme.ThemeSelector = StaticSelector{}

// NewStaticSelector builds a selector for a single theme described by tokens.
func NewStaticSelector(name, variant string, tokens map[string]string) StaticSelector {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}
	copied := make(map[string]string, len(tokens))
	for key, value := range tokens {
		copied[key] = value
	}
	return StaticSelector{
		Manifest: &theme.Manifest{
			Name:    name,
			Version: "1.0.0",
			Tokens:  copied,
		},
		DefaultVariant: strings.TrimSpace(variant),
	}
}

// Select implements theme.ThemeSelector.
func (s StaticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s.Manifest == nil {
		return nil, fmt.Errorf("view: no theme manifest")
	}
	if name = strings.TrimSpace(name); name != "" && name != s.Manifest.Name {
		return nil, fmt.Errorf("view: unknown theme %q", name)
	}
	if variant = strings.TrimSpace(variant); variant == "" {
		variant = s.DefaultVariant
	}
	return &theme.Selection{
		Theme:    s.Manifest.Name,
		Variant:  variant,
		Manifest: s.Manifest,
	}, nil
}
