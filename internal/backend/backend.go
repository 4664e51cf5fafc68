// Package backend holds what the full-text backends have in common
package backend

import (
	"context"
	"fmt"

	"github.com/stacklok/toolhive-search/internal/config"
	"github.com/stacklok/toolhive-search/internal/search"
)

// Backend provides full-text capabilities for configured entity types
type Backend interface {
	// Name identifies the backend in logs and metrics
	Name() string
	// Searcher builds the full-text capability for an entity
	Searcher(cfg config.EntityConfig) (search.FullTextSearcher, error)
	// Ping checks that the backend can serve queries
	Ping(ctx context.Context) error
	// Close releases the backend resources
	Close() error
}

// VersionChecker is implemented by backends that depend on an external
// server version
type VersionChecker interface {
	CheckVersion(ctx context.Context) error
}

// Error is returned by backends when the underlying engine fails
type Error struct {
	Backend string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns err as an *Error, or nil when err is nil
func Wrap(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Backend: backend, Op: op, Err: err}
}
