package visacheck

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-visacheck/pkg/countries"
	"github.com/goliatone/go-visacheck/pkg/palette"
	"github.com/goliatone/go-visacheck/pkg/submission"
)

type regionOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type themeView struct {
	Name          string `json:"name"`
	Variant       string `json:"variant"`
	Style         string `json:"style"`
	StylesheetURL string `json:"stylesheet_url"`
}

type pageView struct {
	Title       string            `json:"title"`
	Action      string            `json:"action"`
	Form        FormDefaults      `json:"form"`
	Regions     []regionOption    `json:"regions"`
	Submitted   bool              `json:"submitted"`
	Results     []countries.Entry `json:"results"`
	Chart       string            `json:"chart"`
	Errors      []string          `json:"errors"`
	FieldErrors map[string]string `json:"field_errors"`
	Theme       themeView         `json:"theme"`
	Stylesheet  string            `json:"stylesheet"`
}

func newPageView(opts Options, r *http.Request, pal palette.Palette) pageView {
	cfg := pal.RendererConfig(PageTemplate)
	view := pageView{
		Title:       opts.Title,
		Action:      formAction(opts, r),
		Form:        opts.Defaults,
		Regions:     regionOptions(submission.Submission{}),
		Results:     []countries.Entry{},
		Errors:      []string{},
		FieldErrors: map[string]string{},
		Theme: themeView{
			Name:    cfg.Theme,
			Variant: cfg.Variant,
			Style:   pal.CSSVarsStyle(),
		},
	}
	if opts.LinkStylesheet {
		view.Theme.StylesheetURL = cfg.AssetURL(palette.AssetStylesheet)
	}
	if view.Theme.StylesheetURL == "" {
		view.Stylesheet = Stylesheet()
	}
	return view
}

// formAction posts back to the current path, keeping the variant selector so
// the result page renders in the same variant.
func formAction(opts Options, r *http.Request) string {
	action := r.URL.Path
	variant := strings.TrimSpace(r.URL.Query().Get(opts.VariantParam))
	if variant == "" {
		return action
	}
	return action + "?" + url.Values{opts.VariantParam: {variant}}.Encode()
}

func (v *pageView) applySubmission(sub submission.Submission) {
	v.Form = FormDefaults{
		Nationality: sub.Nationality,
		Residence:   sub.Residence,
		Purpose:     sub.Purpose,
	}
	v.Regions = regionOptions(sub)
}

func (v *pageView) applyErrors(mapping submission.ErrorMapping) {
	v.Errors = mapping.Flatten(append(submission.RequiredFields(), submission.FieldRegion)...)
	v.FieldErrors = make(map[string]string, len(mapping.Fields))
	for name := range mapping.Fields {
		v.FieldErrors[name] = mapping.Field(name)
	}
}

func regionOptions(sub submission.Submission) []regionOption {
	tags := append([]countries.Region{countries.RegionAll}, countries.Regions()...)
	out := make([]regionOption, 0, len(tags))
	for _, tag := range tags {
		out = append(out, regionOption{
			Value:    tag.String(),
			Label:    tag.Label(),
			Selected: sub.Selected(tag.String()),
		})
	}
	return out
}
