// Package visacheck is the top-level entry point for the visa success
// checker. It re-exports the orchestrator and the embedded resources so
// callers can run a check or serve the page without importing the
// individual packages.
package visacheck

import (
	"context"
	"io/fs"
	"net/url"

	component "github.com/goliatone/go-visacheck/components/visacheck"
	"github.com/goliatone/go-visacheck/pkg/openapi"
	"github.com/goliatone/go-visacheck/pkg/orchestrator"
	"github.com/goliatone/go-visacheck/pkg/submission"
)

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// Submission aliases submission.Submission.
type Submission = submission.Submission

// ErrInvalidSubmission is returned by Check when required fields are missing.
var ErrInvalidSubmission = orchestrator.ErrInvalidSubmission

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Check decodes form values, filters the dataset and renders the chart in a
// single call.
func Check(ctx context.Context, values url.Values, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Check(ctx, Request{
		Submission: submission.FromValues(values),
	})
}

// EmbeddedTemplates exposes the built-in page templates so callers can
// override or extend them.
func EmbeddedTemplates() fs.FS {
	return component.TemplatesFS()
}

// AssetsFS exposes the stylesheet bundle served under /assets/.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(visacheck.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return component.AssetsFS()
}

// OpenAPIDocument returns the embedded API description.
func OpenAPIDocument() (*openapi.Document, error) {
	return openapi.Default()
}
