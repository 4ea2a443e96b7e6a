package openapi

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed data/visacheck.yaml
var specFS embed.FS

const defaultSpecPath = "data/visacheck.yaml"

var (
	defaultOnce sync.Once
	defaultDoc  *Document
	defaultErr  error
)

// Default returns the embedded service document. It is parsed on first use
// and shared afterwards; callers must not mutate the returned schemas.
func Default() (*Document, error) {
	defaultOnce.Do(func() {
		raw, err := specFS.ReadFile(defaultSpecPath)
		if err != nil {
			defaultErr = fmt.Errorf("openapi: read embedded spec: %w", err)
			return
		}
		defaultDoc, defaultErr = Load(context.Background(), raw)
	})
	return defaultDoc, defaultErr
}

// MustDefault panics when the embedded document is invalid.
func MustDefault() *Document {
	doc, err := Default()
	if err != nil {
		panic(err)
	}
	return doc
}

// Load parses and validates an OpenAPI document. The document must define the
// VisaQuery schema.
func Load(ctx context.Context, raw []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrEmptyDocument
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}

	return newDocument(spec)
}
