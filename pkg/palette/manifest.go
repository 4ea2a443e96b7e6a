package palette

import (
	theme "github.com/goliatone/go-theme"
)

const (
	DefaultTheme = "visacheck"
	VariantDark  = "dark"
)

// TemplatePage is the manifest template key for the single page.
const TemplatePage = "page"

// Token keys understood by Resolve.
const (
	TokenChartHigh   = "chart.high"
	TokenChartMedium = "chart.medium"
	TokenChartLow    = "chart.low"
	TokenPageBG      = "page.bg"
	TokenPageFG      = "page.fg"
	TokenAccent      = "accent"
)

// DefaultManifest returns a fresh copy of the built-in theme.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			TokenChartHigh:   "#008000",
			TokenChartMedium: "#FFA500",
			TokenChartLow:    "#FF0000",
			TokenPageBG:      "#f4f6f8",
			TokenPageFG:      "#1f2933",
			TokenAccent:      "#2563eb",
		},
		Templates: map[string]string{
			TemplatePage: "page.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				AssetStylesheet: "visacheck.css",
			},
		},
		Variants: map[string]theme.Variant{
			VariantDark: {
				Tokens: map[string]string{
					TokenPageBG: "#111827",
					TokenPageFG: "#e5e7eb",
					TokenAccent: "#60a5fa",
				},
			},
		},
	}
}
