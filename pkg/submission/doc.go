// Package submission decodes the visa query form and validates it against
// the OpenAPI VisaQuery schema, returning field and form level messages.
package submission
