package openapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// QuerySchemaName is the component schema describing the form body.
const QuerySchemaName = "VisaQuery"

// Operation is a flattened view of one documented endpoint.
type Operation struct {
	ID     string
	Method string
	Path   string
}

// Document wraps a validated kin-openapi document together with its JSON
// rendering.
type Document struct {
	spec  *openapi3.T
	query *openapi3.Schema
	json  []byte
}

func newDocument(spec *openapi3.T) (*Document, error) {
	if spec.Components == nil {
		return nil, ErrMissingSchema
	}
	ref, ok := spec.Components.Schemas[QuerySchemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, ErrMissingSchema
	}

	payload, err := spec.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("openapi: encode json: %w", err)
	}

	return &Document{
		spec:  spec,
		query: ref.Value,
		json:  payload,
	}, nil
}

// Title returns info.title.
func (d *Document) Title() string {
	if d == nil || d.spec == nil || d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// QuerySchema returns the form body schema.
func (d *Document) QuerySchema() *openapi3.Schema {
	if d == nil {
		return nil
	}
	return d.query
}

// RequiredFields lists the required form fields in declaration order.
func (d *Document) RequiredFields() []string {
	if d == nil || d.query == nil {
		return nil
	}
	return append([]string(nil), d.query.Required...)
}

// JSON returns a copy of the document encoded as JSON.
func (d *Document) JSON() []byte {
	if d == nil {
		return nil
	}
	return append([]byte(nil), d.json...)
}

// Operations lists documented endpoints sorted by path then method.
func (d *Document) Operations() []Operation {
	if d == nil || d.spec == nil || d.spec.Paths == nil {
		return nil
	}

	var out []Operation
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			out = append(out, Operation{
				ID:     op.OperationID,
				Method: strings.ToUpper(method),
				Path:   path,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Handler serves the document as application/json.
func (d *Document) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=300")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(d.json)
	})
}
