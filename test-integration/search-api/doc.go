// Package integration runs the search API server end to end against the
// embedded bleve backend.
package integration
