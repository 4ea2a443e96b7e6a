// Package orchestrator wires the validate → filter → chart → rasterise
// pipeline behind a single Check call shared by the HTTP component, the CLI
// and the root package helpers.
package orchestrator
