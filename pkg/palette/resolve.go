package palette

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-visacheck/pkg/chart"
)

// AssetStylesheet is the manifest asset key of the page stylesheet.
const AssetStylesheet = "stylesheet"

// Palette is a resolved theme selection.
type Palette struct {
	Theme   string
	Variant string
	Chart   chart.Palette
	Tokens  map[string]string
	CSSVars map[string]string

	selection theme.Selection
}

// Resolve reads the merged tokens from selection. Chart colors that are
// missing fall back to the chart defaults; malformed ones are an error.
func Resolve(selection *theme.Selection) (Palette, error) {
	if selection == nil || selection.Manifest == nil {
		return Palette{}, errors.New("palette: selection has no manifest")
	}
	tokens := selection.Tokens()

	colors := chart.Palette{
		High:   tokens[TokenChartHigh],
		Medium: tokens[TokenChartMedium],
		Low:    tokens[TokenChartLow],
	}.Merge(chart.DefaultPalette())
	for _, hex := range []string{colors.High, colors.Medium, colors.Low} {
		if _, err := chart.ParseHex(hex); err != nil {
			return Palette{}, fmt.Errorf("palette: chart color: %w", err)
		}
	}

	return Palette{
		Theme:     selection.Theme,
		Variant:   selection.Variant,
		Chart:     colors,
		Tokens:    tokens,
		CSSVars:   cssVars(tokens),
		selection: *selection,
	}, nil
}

// Template returns the template registered under key, or fallback.
func (p Palette) Template(key, fallback string) string {
	return p.selection.Template(key, fallback)
}

// AssetURL returns the prefixed path of the asset registered under key.
func (p Palette) AssetURL(key string) string {
	url, _ := p.selection.Asset(key)
	return url
}

// CSSVarsStyle renders the CSS variables as a declaration list sorted by name.
func (p Palette) CSSVarsStyle() string {
	if len(p.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p.CSSVars))
	for key := range p.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(p.CSSVars[key])
		b.WriteString(";")
	}
	return b.String()
}

// RendererConfig returns go-theme's renderer bundle with the page template
// resolved against fallback and CSS variable names made CSS-safe.
func (p Palette) RendererConfig(fallback string) theme.RendererConfig {
	cfg := p.selection.RendererTheme(map[string]string{TemplatePage: fallback})
	cfg.CSSVars = p.CSSVars
	return cfg
}

// cssVars renames tokens such as "page.bg" to "--page-bg"; go-theme keeps
// the dots, which CSS does not accept unescaped.
func cssVars(tokens map[string]string) map[string]string {
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := strings.ToLower(strings.TrimSpace(key))
		if name == "" {
			continue
		}
		name = strings.NewReplacer(".", "-", "_", "-", " ", "-").Replace(name)
		out["--"+name] = strings.TrimSpace(value)
	}
	return out
}
