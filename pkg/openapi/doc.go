// Package openapi carries the service's OpenAPI 3 description. The document is
// embedded, validated once with kin-openapi, and doubles as the source of the
// query form schema used for submission validation.
package openapi
