// Package server assembles the visa checker routes, request logging and the
// graceful shutdown lifecycle used by cmd/visacheck-server.
package server
