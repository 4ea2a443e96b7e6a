package pongo_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-visacheck/pkg/render/template/pongo"
)

func newEngine(t *testing.T, opts ...pongo.Option) *pongo.Engine {
	t.Helper()
	files := fstest.MapFS{
		"hello.tmpl":      {Data: []byte("Hello {{ name }}")},
		"use-global.tmpl": {Data: []byte("env={{ settings.env }}")},
		"use-filter.tmpl": {Data: []byte("{{ name|shout }}")},
		"buckets.tmpl":    {Data: []byte("{% for r in rates %}{{ r|bucket }};{% endfor %}")},
		"escape.tmpl":     {Data: []byte("<p>{{ value }}</p>")},
	}
	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	var buf strings.Builder
	got, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Ada" {
		t.Fatalf("unexpected output %q", got)
	}
	if buf.String() != got {
		t.Fatalf("writer mismatch: %q vs %q", buf.String(), got)
	}
}

func TestEngine_RenderTemplateWithExtension(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderTemplate("hello.tmpl", map[string]any{"name": "Grace"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Grace" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_StructDataUsesJSONNames(t *testing.T) {
	engine := newEngine(t)
	data := struct {
		Name string `json:"name"`
	}{Name: "Linus"}

	got, err := engine.RenderTemplate("hello", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Linus" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	got, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "env=staging" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_WithGlobalData(t *testing.T) {
	engine := newEngine(t, pongo.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "prod"},
	}))
	got, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "env=prod" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	got, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("unexpected output %q", got)
	}

	if err := engine.RegisterFilter("shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}
}

func TestEngine_BucketFilter(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderTemplate("buckets", map[string]any{
		"rates": []string{"97%", "84%", "62%", "n/a"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "high;medium;low;low;" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RenderStringTrimFilter(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.Render("[{{ value|trim }}]", map[string]any{"value": "  Qatar  "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "[Qatar]" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_AutoEscape(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderTemplate("escape", map[string]any{"value": "<script>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("expected escaped output, got %q", got)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestEngine_BaseDirOverridesFS(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.tmpl"), []byte("Howdy {{ name }}"), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	engine := newEngine(t, pongo.WithBaseDir(dir))

	got, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Howdy Ada" {
		t.Fatalf("expected override, got %q", got)
	}

	got, err = engine.RenderTemplate("escape", map[string]any{"value": "x"})
	if err != nil {
		t.Fatalf("render fallback: %v", err)
	}
	if got != "<p>x</p>" {
		t.Fatalf("expected embedded fallback, got %q", got)
	}
}

func TestNew_MissingBaseDir(t *testing.T) {
	if _, err := pongo.New(pongo.WithBaseDir(filepath.Join(t.TempDir(), "nope"))); err == nil {
		t.Fatalf("expected error for missing base dir")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}
