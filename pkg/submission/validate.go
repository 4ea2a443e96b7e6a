package submission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrNoSchema is returned when Validate is called without a schema.
var ErrNoSchema = errors.New("submission: schema is nil")

var fieldLabels = map[string]string{
	FieldNationality: "Nationality",
	FieldResidence:   "Country of residence",
	FieldPurpose:     "Purpose of visa",
	FieldRegion:      "Region",
}

// RequiredFields lists the free-text fields in form order.
func RequiredFields() []string {
	return []string{FieldNationality, FieldResidence, FieldPurpose}
}

// Validate checks the submission against schema and collects every failure.
// A nil error with an empty mapping means the submission is valid.
func (s Submission) Validate(schema *openapi3.Schema) (ErrorMapping, error) {
	if schema == nil {
		return ErrorMapping{}, ErrNoSchema
	}

	err := schema.VisitJSON(s.document(), openapi3.MultiErrors())
	if err == nil {
		return ErrorMapping{}, nil
	}

	var schemaErrors []*openapi3.SchemaError
	var multi openapi3.MultiError
	var single *openapi3.SchemaError
	switch {
	case errors.As(err, &multi):
		for _, item := range multi {
			var se *openapi3.SchemaError
			if errors.As(item, &se) {
				schemaErrors = append(schemaErrors, se)
				continue
			}
			return ErrorMapping{}, fmt.Errorf("submission: validate: %w", item)
		}
	case errors.As(err, &single):
		schemaErrors = append(schemaErrors, single)
	default:
		return ErrorMapping{}, fmt.Errorf("submission: validate: %w", err)
	}

	payload := make(map[string][]string, len(schemaErrors))
	for _, se := range schemaErrors {
		path := "/" + strings.Join(se.JSONPointer(), "/")
		payload[path] = append(payload[path], message(path, se))
	}

	fields := append(RequiredFields(), FieldRegion)
	return MapErrorPayload(fields, payload), nil
}

func message(path string, se *openapi3.SchemaError) string {
	label, ok := fieldLabels[fieldFromPath(path)]
	if !ok {
		return se.Reason
	}
	switch se.SchemaField {
	case "required", "minLength":
		return label + " is required."
	case "type":
		return label + " has an invalid value."
	default:
		return label + ": " + se.Reason
	}
}
