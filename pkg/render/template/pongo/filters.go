package pongo

import (
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-visacheck/pkg/chart"
)

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("bucket") {
		_ = pongo2.RegisterFilter("bucket", filterBucket)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterBucket maps a rate string such as "82%" to high, medium or low.
func filterBucket(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(string(chart.BucketForRate(in.String()))), nil
}
