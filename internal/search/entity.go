// Package search assembles global search results across entity types
package search

import (
	"context"
	"fmt"
)

//go:generate mockgen -destination=mocks/mock_entity.go -package=mocks -source=entity.go EntityType,FullTextSearcher,SearchableEntityType

// Record is a raw match returned by a full-text backend
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Field returns the named field as a string. The record ID is available as "id".
func (r Record) Field(name string) string {
	if name == "id" && r.ID != "" {
		return r.ID
	}
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Action is a link shown next to a search result
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// EntityType describes a class of searchable records and how to present them
type EntityType interface {
	// ID identifies the entity type in exclusion rules
	ID() string
	// PluralLabel names the result category
	PluralLabel() string
	// CanGloballySearch reports whether the type takes part in global search at all
	CanGloballySearch() bool

	ResultTitle(r Record) string
	ResultURL(r Record) string
	ResultDetails(r Record) map[string]string
	ResultActions(r Record) []Action
}

// FullTextSearcher runs a full-text query. A limit of zero means unbounded.
type FullTextSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]Record, error)
}

// Searchable is implemented by entity types whose data source can be searched.
// Entity types that do not implement it, or return a nil searcher, are
// misconfigured.
type Searchable interface {
	Searcher() FullTextSearcher
}

// SearchableEntityType is an entity type with a full-text capability
type SearchableEntityType interface {
	EntityType
	Searchable
}

// TypeNamer gives an entity type a second identity for exclusion checks
type TypeNamer interface {
	TypeName() string
}

// FullTextSearcherFunc adapts a function to FullTextSearcher
type FullTextSearcherFunc func(ctx context.Context, query string, limit int) ([]Record, error)

// Search calls f
func (f FullTextSearcherFunc) Search(ctx context.Context, query string, limit int) ([]Record, error) {
	return f(ctx, query, limit)
}

// SearcherOf returns the full-text capability of an entity type, or nil
func SearcherOf(e EntityType) FullTextSearcher {
	s, ok := e.(Searchable)
	if !ok {
		return nil
	}
	return s.Searcher()
}

// TypeNameOf returns the secondary identity of an entity type. Types that do
// not implement TypeNamer are identified by their Go type.
func TypeNameOf(e EntityType) string {
	if n, ok := e.(TypeNamer); ok {
		return n.TypeName()
	}
	return fmt.Sprintf("%T", e)
}
