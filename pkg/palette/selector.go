package palette

import (
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

var (
	ErrUnknownTheme   = errors.New("palette: unknown theme")
	ErrUnknownVariant = errors.New("palette: unknown variant")
)

// Selector resolves theme and variant names through a go-theme registry.
// Blank names fall back to the selector defaults.
type Selector struct {
	registry *theme.MemoryRegistry
	selector theme.Selector
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector registers manifests and checks that the defaults resolve. With
// no manifests the built-in theme is used.
func NewSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*Selector, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}

	registry := theme.NewRegistry()
	defaultTheme = strings.TrimSpace(defaultTheme)
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("palette: register %q: %w", manifest.Name, err)
		}
		if defaultTheme == "" {
			defaultTheme = manifest.Name
		}
	}

	s := &Selector{
		registry: registry,
		selector: theme.Selector{
			Registry:       registry,
			DefaultTheme:   defaultTheme,
			DefaultVariant: strings.ToLower(strings.TrimSpace(defaultVariant)),
		},
	}
	if _, err := s.Select("", ""); err != nil {
		return nil, err
	}
	return s, nil
}

// Themes lists the registered manifests.
func (s *Selector) Themes() []theme.ManifestRef {
	if s == nil || s.registry == nil {
		return nil
	}
	return s.registry.Themes()
}

// Select delegates to the go-theme selector. Unknown theme names fall back to
// the default theme; unknown variants are rejected.
func (s *Selector) Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error) {
	if s == nil || s.registry == nil {
		return nil, ErrUnknownTheme
	}
	selection, err := s.selector.Select(name, strings.ToLower(strings.TrimSpace(variant)), opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownTheme, err)
	}
	selection.Theme = selection.Manifest.Name
	if selection.Variant != "" {
		if _, ok := selection.Manifest.Variants[selection.Variant]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, selection.Variant)
		}
	}
	return selection, nil
}

// Default resolves the selector defaults.
func (s *Selector) Default() (Palette, error) {
	selection, err := s.Select("", "")
	if err != nil {
		return Palette{}, err
	}
	return Resolve(selection)
}

// ForVariant resolves the default theme with a different variant. Unknown
// variants fall back to the default selection.
func (s *Selector) ForVariant(variant string) (Palette, error) {
	selection, err := s.Select("", variant)
	if errors.Is(err, ErrUnknownVariant) {
		selection, err = s.Select("", "")
	}
	if err != nil {
		return Palette{}, err
	}
	return Resolve(selection)
}
