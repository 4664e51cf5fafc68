// Package entity builds search entity types from configuration
package entity

import (
	"errors"
	"fmt"

	"github.com/stacklok/toolhive-search/internal/config"
	"github.com/stacklok/toolhive-search/internal/search"
)

// SearcherFactory builds the full-text capability for a configured entity
type SearcherFactory interface {
	Searcher(cfg config.EntityConfig) (search.FullTextSearcher, error)
}

// Type is an entity type whose presentation is driven by configuration
type Type struct {
	cfg      config.EntityConfig
	searcher search.FullTextSearcher
}

var (
	_ search.SearchableEntityType = (*Type)(nil)
	_ search.TypeNamer            = (*Type)(nil)
)

// New creates an entity type. A nil searcher leaves the type without a
// full-text capability.
func New(cfg config.EntityConfig, searcher search.FullTextSearcher) *Type {
	return &Type{cfg: cfg, searcher: searcher}
}

// Build creates the entity types in configuration order. Entities without a
// source get no searcher.
func Build(cfgs []config.EntityConfig, factory SearcherFactory) ([]search.EntityType, error) {
	entities := make([]search.EntityType, 0, len(cfgs))
	for _, cfg := range cfgs {
		var searcher search.FullTextSearcher
		if cfg.Source != "" && factory != nil {
			s, err := factory.Searcher(cfg)
			if err != nil {
				return nil, fmt.Errorf("failed to create searcher for entity %s: %w", cfg.ID, err)
			}
			searcher = s
		}
		entities = append(entities, New(cfg, searcher))
	}
	return entities, nil
}

// Validate reports every globally searchable entity type that cannot be
// searched. Each error wraps search.ErrNotSearchable.
func Validate(entities []search.EntityType) error {
	var errs []error
	for _, e := range entities {
		if !e.CanGloballySearch() {
			continue
		}
		if search.SearcherOf(e) == nil {
			errs = append(errs, fmt.Errorf("entity type %q: %w", e.ID(), search.ErrNotSearchable))
		}
	}
	return errors.Join(errs...)
}

// ID implements search.EntityType
func (t *Type) ID() string {
	return t.cfg.ID
}

// PluralLabel implements search.EntityType
func (t *Type) PluralLabel() string {
	return t.cfg.PluralLabel
}

// CanGloballySearch implements search.EntityType
func (t *Type) CanGloballySearch() bool {
	return t.cfg.IsGloballySearchable()
}

// TypeName returns the entity source, which exclusion rules may also name
func (t *Type) TypeName() string {
	return t.cfg.Source
}

// Searcher implements search.Searchable
func (t *Type) Searcher() search.FullTextSearcher {
	return t.searcher
}

// ResultTitle returns the title field, falling back to the record ID
func (t *Type) ResultTitle(r search.Record) string {
	if t.cfg.TitleField != "" {
		if title := r.Field(t.cfg.TitleField); title != "" {
			return title
		}
	}
	return r.ID
}

// ResultURL expands the URL template against the record
func (t *Type) ResultURL(r search.Record) string {
	return expand(t.cfg.URLTemplate, r)
}

// ResultDetails returns the non-empty detail fields
func (t *Type) ResultDetails(r search.Record) map[string]string {
	if len(t.cfg.DetailFields) == 0 {
		return nil
	}
	details := make(map[string]string, len(t.cfg.DetailFields))
	for _, field := range t.cfg.DetailFields {
		if v := r.Field(field); v != "" {
			details[field] = v
		}
	}
	return details
}

// ResultActions returns the actions whose URL could be expanded
func (t *Type) ResultActions(r search.Record) []search.Action {
	if len(t.cfg.Actions) == 0 {
		return nil
	}
	actions := make([]search.Action, 0, len(t.cfg.Actions))
	for _, a := range t.cfg.Actions {
		url := expand(a.URLTemplate, r)
		if url == "" {
			continue
		}
		actions = append(actions, search.Action{Label: a.Label, URL: url})
	}
	return actions
}
