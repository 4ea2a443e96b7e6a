package chart

import (
	"fmt"

	"github.com/goliatone/go-visacheck/pkg/countries"
)

const (
	DefaultTitle  = "Visa Approval Rates by Country"
	DefaultXLabel = "Visa Approval Rate (%)"
)

// Bar is one horizontal bar.
type Bar struct {
	Label  string  `json:"label"`
	Rate   string  `json:"rate"`
	Value  float64 `json:"value"`
	Bucket Bucket  `json:"bucket"`
}

// Chart is the renderer-independent chart model.
type Chart struct {
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	Bars   []Bar  `json:"bars"`
}

// Empty reports whether the chart has no bars.
func (c Chart) Empty() bool {
	return len(c.Bars) == 0
}

// Buckets lists the bucket of every bar in order.
func (c Chart) Buckets() []Bucket {
	out := make([]Bucket, 0, len(c.Bars))
	for _, bar := range c.Bars {
		out = append(out, bar.Bucket)
	}
	return out
}

// Build creates one bar per entry, in input order.
func Build(entries []countries.Entry) (Chart, error) {
	c := Chart{
		Title:  DefaultTitle,
		XLabel: DefaultXLabel,
		Bars:   make([]Bar, 0, len(entries)),
	}
	for _, entry := range entries {
		value, err := ParseRate(entry.SuccessRate)
		if err != nil {
			return Chart{}, fmt.Errorf("chart: entry %q: %w", entry.Name, err)
		}
		c.Bars = append(c.Bars, Bar{
			Label:  entry.Name,
			Rate:   entry.SuccessRate,
			Value:  value,
			Bucket: BucketFor(value),
		})
	}
	return c, nil
}
