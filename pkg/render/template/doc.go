// Package template defines the renderer-agnostic template contract used to
// render the visa checker page. The pongo subpackage provides the default,
// Django-syntax implementation.
package template
