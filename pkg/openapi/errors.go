package openapi

import "errors"

var (
	ErrEmptyDocument = errors.New("openapi: document is empty")
	ErrMissingSchema = errors.New("openapi: VisaQuery schema not defined")
)
