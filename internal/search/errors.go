package search

import (
	"errors"
	"fmt"
)

// ErrNotSearchable is returned when an entity type has no full-text search capability.
// It points at a setup mistake and aborts the whole search.
var ErrNotSearchable = errors.New("entity type is not searchable: its data source has no full-text search capability")

// notSearchable wraps ErrNotSearchable with the offending entity type
func notSearchable(entityType string) error {
	return fmt.Errorf("entity type %q: %w", entityType, ErrNotSearchable)
}
