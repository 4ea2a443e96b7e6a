package visacheck

import (
	"embed"
	"io/fs"
	"sync"

	"github.com/goliatone/go-visacheck/pkg/render/template"
	"github.com/goliatone/go-visacheck/pkg/render/template/pongo"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	PageTemplate   = "page.tmpl"
	StylesheetName = "visacheck.css"
)

var (
	defaultEngineOnce sync.Once
	defaultEngine     template.TemplateRenderer
	defaultEngineErr  error
)

// TemplatesFS exposes the embedded page templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// AssetsFS exposes the embedded stylesheet bundle for serving over HTTP.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// Stylesheet returns the embedded stylesheet contents.
func Stylesheet() string {
	data, err := fs.ReadFile(embeddedAssets, "assets/"+StylesheetName)
	if err != nil {
		return ""
	}
	return string(data)
}

// DefaultTemplates returns the shared pongo2 engine over TemplatesFS.
func DefaultTemplates() (template.TemplateRenderer, error) {
	defaultEngineOnce.Do(func() {
		defaultEngine, defaultEngineErr = pongo.New(pongo.WithFS(TemplatesFS()))
	})
	return defaultEngine, defaultEngineErr
}
