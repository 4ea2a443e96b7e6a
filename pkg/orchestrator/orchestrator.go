package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-visacheck/pkg/chart"
	"github.com/goliatone/go-visacheck/pkg/countries"
	"github.com/goliatone/go-visacheck/pkg/openapi"
	"github.com/goliatone/go-visacheck/pkg/submission"
)

// ErrInvalidSubmission is returned by Check when required fields are missing.
// The accompanying Result carries the field messages.
var ErrInvalidSubmission = errors.New("orchestrator: invalid submission")

// ChartRenderer rasterises a chart model into PNG bytes.
type ChartRenderer interface {
	PNG(ctx context.Context, c chart.Chart) ([]byte, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithEntries replaces the embedded dataset. A nil slice keeps the default.
func WithEntries(entries []countries.Entry) Option {
	return func(o *Orchestrator) {
		if entries == nil {
			return
		}
		o.entries = countries.Clone(entries)
	}
}

// WithChartRenderer injects a custom rasteriser. Request palettes are ignored
// when one is set.
func WithChartRenderer(renderer ChartRenderer) Option {
	return func(o *Orchestrator) {
		o.renderer = renderer
	}
}

// WithChartOptions configures the default go-chart renderer.
func WithChartOptions(options ...chart.Option) Option {
	return func(o *Orchestrator) {
		o.chartOptions = append(o.chartOptions, options...)
	}
}

// Orchestrator validates a query and produces the filtered list and chart.
// It holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	entries       []countries.Entry
	renderer      ChartRenderer
	document      *openapi.Document
	chartOptions  []chart.Option
	initialiseErr error
}

// New constructs an Orchestrator. Missing dependencies fall back to the
// embedded dataset, the embedded OpenAPI document and the go-chart renderer.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one check.
type Request struct {
	Submission submission.Submission

	// Palette overrides the default renderer colours for this request.
	Palette *chart.Palette

	// SkipChart disables rasterisation; Result.Chart is still populated.
	SkipChart bool
}

// Result is the outcome of a check. PNG is nil when no entry matched or the
// chart was skipped.
type Result struct {
	Query   submission.Submission   `json:"query"`
	Entries []countries.Entry       `json:"data"`
	Chart   chart.Chart             `json:"-"`
	PNG     []byte                  `json:"-"`
	Errors  submission.ErrorMapping `json:"-"`
}

// ChartBase64 returns the chart as base64, empty when there is no image.
func (r Result) ChartBase64() string {
	return chart.EncodeBase64(r.PNG)
}

// Response is the wire shape of a result. Chart is null when no image was
// rendered.
type Response struct {
	Query submission.Submission `json:"query"`
	Data  []countries.Entry     `json:"data"`
	Chart *string               `json:"chart"`
}

// Response builds the JSON payload shared by the HTTP handler and the CLI.
func (r Result) Response() Response {
	out := Response{Query: r.Query, Data: r.Entries}
	if out.Data == nil {
		out.Data = []countries.Entry{}
	}
	if encoded := r.ChartBase64(); encoded != "" {
		out.Chart = &encoded
	}
	return out
}

// ChartDataURI returns the chart as an inline data URI.
func (r Result) ChartDataURI() string {
	return chart.DataURI(r.PNG)
}

// Check validates req, filters the dataset by the selected regions and renders
// the chart. Validation failures return ErrInvalidSubmission alongside a
// Result whose Errors field is populated.
func (o *Orchestrator) Check(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}

	result := Result{Query: req.Submission}

	mapping, err := req.Submission.Validate(o.document.QuerySchema())
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: validate: %w", err)
	}
	if !mapping.Empty() {
		result.Errors = mapping
		return result, ErrInvalidSubmission
	}

	result.Entries = countries.Filter(o.entries, req.Submission.Regions)
	model, err := chart.Build(result.Entries)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: build chart: %w", err)
	}
	result.Chart = model
	if model.Empty() || req.SkipChart {
		return result, nil
	}

	png, err := o.rendererFor(req).PNG(ctx, model)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render chart: %w", err)
	}
	result.PNG = png
	return result, nil
}

func (o *Orchestrator) rendererFor(req Request) ChartRenderer {
	if o.renderer != nil {
		return o.renderer
	}
	options := append([]chart.Option(nil), o.chartOptions...)
	if req.Palette != nil {
		options = append(options, chart.WithPalette(*req.Palette))
	}
	return chart.NewRenderer(options...)
}

func (o *Orchestrator) applyDefaults() {
	if o.entries == nil {
		entries, err := countries.Default()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load dataset: %w", err)
			return
		}
		o.entries = entries
	}
	if o.document == nil {
		doc, err := openapi.Default()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load openapi: %w", err)
			return
		}
		o.document = doc
	}
}
