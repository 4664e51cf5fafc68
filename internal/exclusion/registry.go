package exclusion

import (
	"log/slog"
	"slices"
	"sync"
)

// Rule pairs a pattern with the entity types it excludes
type Rule struct {
	Pattern     string   `json:"pattern"`
	Kind        string   `json:"kind"`
	EntityTypes []string `json:"entityTypes"`
}

// entry is a registered pattern together with its entity types
type entry struct {
	pattern     Pattern
	entityTypes []string
}

// Registry holds exclusion rules keyed by pattern. Patterns keep their
// insertion order. The registry is meant to be populated at startup and read
// per request; the lock only makes concurrent readers safe.
type Registry struct {
	mu      sync.RWMutex
	entries []*entry
	index   map[string]*entry
	version uint64
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]*entry),
	}
}

// AddRules merges rules into the registry. Entity types for a pattern that is
// already registered are appended, duplicates included. New patterns from a
// single call are inserted in sorted order.
func (r *Registry) AddRules(rules map[string][]string) {
	if len(rules) == 0 {
		return
	}

	patterns := make([]string, 0, len(rules))
	for pattern := range rules {
		patterns = append(patterns, pattern)
	}
	slices.Sort(patterns)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, pattern := range patterns {
		r.addLocked(pattern, rules[pattern])
	}
	r.version++
}

// AddRule registers a single pattern for the given entity types
func (r *Registry) AddRule(pattern string, entityTypes ...string) {
	r.AddRules(map[string][]string{pattern: entityTypes})
}

func (r *Registry) addLocked(pattern string, entityTypes []string) {
	if e, ok := r.index[pattern]; ok {
		e.entityTypes = append(e.entityTypes, entityTypes...)
		return
	}

	parsed := ParsePattern(pattern)
	if parsed.Kind == KindSubstring && parsed.Value == "" {
		slog.Warn("Exclusion pattern is empty and matches every query",
			"pattern", pattern,
			"entityTypes", entityTypes)
	}

	e := &entry{
		pattern:     parsed,
		entityTypes: slices.Clone(entityTypes),
	}
	if e.entityTypes == nil {
		e.entityTypes = []string{}
	}
	r.entries = append(r.entries, e)
	r.index[pattern] = e
}

// GetAll returns a copy of every pattern and its entity types
func (r *Registry) GetAll() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make(map[string][]string, len(r.entries))
	for _, e := range r.entries {
		all[e.pattern.Raw] = slices.Clone(e.entityTypes)
	}
	return all
}

// Rules returns the registered rules in insertion order
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.entries))
	for _, e := range r.entries {
		rules = append(rules, Rule{
			Pattern:     e.pattern.Raw,
			Kind:        e.pattern.Kind.String(),
			EntityTypes: slices.Clone(e.entityTypes),
		})
	}
	return rules
}

// Len returns the number of registered patterns
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Clear removes every rule
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.index = make(map[string]*entry)
	r.version++
}

// Clone returns an independent copy of the registry
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := &Registry{
		entries: make([]*entry, 0, len(r.entries)),
		index:   make(map[string]*entry, len(r.entries)),
		version: r.version,
	}
	for _, e := range r.entries {
		c := &entry{pattern: e.pattern, entityTypes: slices.Clone(e.entityTypes)}
		clone.entries = append(clone.entries, c)
		clone.index[e.pattern.Raw] = c
	}
	return clone
}

// Version changes every time the registry is mutated
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// each calls fn for every entry in insertion order until fn returns false
func (r *Registry) each(fn func(p Pattern, entityTypes []string) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if !fn(e.pattern, e.entityTypes) {
			return
		}
	}
}

// ExcludeOnWord excludes an entity type from queries matching word
func (r *Registry) ExcludeOnWord(word, entityType string) {
	r.AddRule(word, entityType)
}

// ExcludeOnWords excludes entity types from queries matching any of the words
func (r *Registry) ExcludeOnWords(words []string, entityTypes ...string) {
	for _, word := range words {
		r.AddRule(word, entityTypes...)
	}
}

// ExcludeOnPrefix excludes entity types while the query is a prefix of word
func (r *Registry) ExcludeOnPrefix(word string, entityTypes ...string) {
	r.AddRule(prefixSigil+word, entityTypes...)
}

// ExcludeOnExactMatch excludes entity types when the query is exactly word
func (r *Registry) ExcludeOnExactMatch(word string, entityTypes ...string) {
	r.AddRule(word+exactSigil, entityTypes...)
}
