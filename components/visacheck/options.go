package visacheck

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-visacheck/pkg/countries"
	"github.com/goliatone/go-visacheck/pkg/orchestrator"
	"github.com/goliatone/go-visacheck/pkg/palette"
	"github.com/goliatone/go-visacheck/pkg/render/template"
)

type GuardFunc func(r *http.Request) error

// ChartRenderer rasterises a chart model into PNG bytes.
type ChartRenderer = orchestrator.ChartRenderer

// Logger receives write failures. *log.Logger and *logrus.Logger satisfy it.
type Logger interface {
	Printf(format string, args ...any)
}

// FormDefaults prefill the idle form.
type FormDefaults struct {
	Nationality string `json:"nationality"`
	Residence   string `json:"residence"`
	Purpose     string `json:"purpose"`
}

type Options struct {
	RoutePath    string
	FormatParam  string
	VariantParam string
	Title        string
	Defaults     FormDefaults
	Guard        GuardFunc
	Logger       Logger

	// Entries overrides the embedded dataset when non-nil.
	Entries []countries.Entry

	Templates    template.TemplateRenderer
	TemplateName string
	Chart        ChartRenderer
	Palette      *palette.Selector

	// LinkStylesheet references the theme stylesheet asset instead of
	// inlining it. The host must serve AssetsHandler at the asset prefix.
	LinkStylesheet bool
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    "/",
		FormatParam:  "format",
		VariantParam: "variant",
		Title:        "VisitVisa.AI",
		Defaults: FormDefaults{
			Nationality: "Pakistan",
			Residence:   "Indonesia",
			Purpose:     "Tourism",
		},
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if strings.TrimSpace(opts.RoutePath) == "" {
		opts.RoutePath = "/"
	}
	if opts.FormatParam == "" {
		opts.FormatParam = "format"
	}
	if opts.VariantParam == "" {
		opts.VariantParam = "variant"
	}
	if opts.Title == "" {
		opts.Title = "VisitVisa.AI"
	}
	if opts.Entries != nil {
		opts.Entries = countries.Clone(opts.Entries)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithTitle(title string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Title = title
	}
}

// WithEntries replaces the embedded dataset. A nil slice restores it.
func WithEntries(entries []countries.Entry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if entries == nil {
			o.Entries = nil
			return
		}
		o.Entries = countries.Clone(entries)
	}
}

// WithTemplates swaps the template engine. name defaults to page.tmpl.
func WithTemplates(renderer template.TemplateRenderer, name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Templates = renderer
		o.TemplateName = strings.TrimSpace(name)
	}
}

func WithChartRenderer(renderer ChartRenderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Chart = renderer
	}
}

func WithPalette(selector *palette.Selector) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Palette = selector
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithDefaults(defaults FormDefaults) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Defaults = defaults
	}
}

func WithLogger(logger Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithFormatParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormatParam = name
	}
}

func WithVariantParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.VariantParam = name
	}
}

func WithLinkedStylesheet() OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LinkStylesheet = true
	}
}
