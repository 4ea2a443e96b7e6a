package visacheck

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/goliatone/go-visacheck/pkg/orchestrator"
	"github.com/goliatone/go-visacheck/pkg/palette"
	"github.com/goliatone/go-visacheck/pkg/submission"
)

const maxMemory = 1 << 20

var (
	defaultSelectorOnce sync.Once
	defaultSelector     *palette.Selector
	defaultSelectorErr  error
)

type errorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a handler from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	orch := orchestrator.New(
		orchestrator.WithEntries(opts.Entries),
		orchestrator.WithChartRenderer(opts.Chart),
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodPost:
		default:
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead+", "+http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		pal, err := resolvePalette(opts, r)
		if err != nil {
			logf(opts, "resolve palette: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		view := newPageView(opts, r, pal)

		if r.Method != http.MethodPost {
			renderPage(w, r, opts, pal, view, http.StatusOK)
			return
		}

		if err := parseForm(r); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		sub := submission.FromValues(r.PostForm)
		view.applySubmission(sub)
		asJSON := wantsJSON(r, opts)

		result, err := orch.Check(r.Context(), orchestrator.Request{
			Submission: sub,
			Palette:    &pal.Chart,
		})
		if errors.Is(err, orchestrator.ErrInvalidSubmission) {
			if asJSON {
				writeJSON(w, r, opts, http.StatusBadRequest, errorResponse{Errors: errorPayload(result.Errors)})
				return
			}
			view.applyErrors(result.Errors)
			renderPage(w, r, opts, pal, view, http.StatusBadRequest)
			return
		}
		if err != nil {
			logf(opts, "check: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if asJSON {
			writeJSON(w, r, opts, http.StatusOK, result.Response())
			return
		}

		view.Submitted = true
		view.Results = result.Entries
		view.Chart = result.ChartDataURI()
		renderPage(w, r, opts, pal, view, http.StatusOK)
	})
}

func resolvePalette(opts Options, r *http.Request) (palette.Palette, error) {
	selector := opts.Palette
	if selector == nil {
		defaultSelectorOnce.Do(func() {
			defaultSelector, defaultSelectorErr = palette.NewSelector("", "")
		})
		if defaultSelectorErr != nil {
			return palette.Palette{}, defaultSelectorErr
		}
		selector = defaultSelector
	}
	if variant := strings.TrimSpace(r.URL.Query().Get(opts.VariantParam)); variant != "" {
		return selector.ForVariant(variant)
	}
	return selector.Default()
}

func renderPage(w http.ResponseWriter, r *http.Request, opts Options, pal palette.Palette, view pageView, status int) {
	engine := opts.Templates
	if engine == nil {
		loaded, err := DefaultTemplates()
		if err != nil {
			logf(opts, "load templates: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		engine = loaded
	}
	name := opts.TemplateName
	if name == "" {
		name = pal.Template(palette.TemplatePage, PageTemplate)
	}

	var buf bytes.Buffer
	if _, err := engine.RenderTemplate(name, view, &buf); err != nil {
		logf(opts, "render page: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := buf.WriteTo(w); err != nil {
		logf(opts, "write response: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, opts Options, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(payload); err != nil {
		logf(opts, "write response: %v", err)
	}
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}

func wantsJSON(r *http.Request, opts Options) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(opts.FormatParam))) {
	case "json":
		return true
	case "html":
		return false
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == "application/json" {
			return true
		}
	}
	return false
}

func errorPayload(mapping submission.ErrorMapping) map[string][]string {
	out := make(map[string][]string, len(mapping.Fields)+1)
	for name, messages := range mapping.Fields {
		out[name] = append([]string(nil), messages...)
	}
	if len(mapping.Form) > 0 {
		out["form"] = append([]string(nil), mapping.Form...)
	}
	return out
}

func logf(opts Options, format string, args ...any) {
	if opts.Logger == nil {
		return
	}
	opts.Logger.Printf(format, args...)
}
