package exclusion

import (
	"fmt"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Resolver answers exclusion questions against a registry
type Resolver struct {
	registry *Registry

	cacheMu      sync.Mutex
	cache        *lru.Cache[string, []string]
	cacheVersion uint64
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver) error

// WithCache keeps the excluded entity types of the most recent queries.
// The cache is dropped whenever the registry changes. A size of zero disables it.
func WithCache(size int) ResolverOption {
	return func(r *Resolver) error {
		if size <= 0 {
			return nil
		}
		cache, err := lru.New[string, []string](size)
		if err != nil {
			return fmt.Errorf("failed to create exclusion cache: %w", err)
		}
		r.cache = cache
		return nil
	}
}

// NewResolver creates a resolver reading from the given registry
func NewResolver(registry *Registry, opts ...ResolverOption) (*Resolver, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}

	r := &Resolver{registry: registry}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Registry returns the registry the resolver reads from
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// IsExcluded reports whether entityType is excluded for query. The first
// matching rule that lists the entity type wins.
func (r *Resolver) IsExcluded(query, entityType string) bool {
	if r.cache != nil {
		return slices.Contains(r.ExcludedEntityTypesFor(query), entityType)
	}

	excluded := false
	r.registry.each(func(p Pattern, entityTypes []string) bool {
		if slices.Contains(entityTypes, entityType) && p.Match(query) {
			excluded = true
			return false
		}
		return true
	})
	return excluded
}

// ExcludedEntityTypesFor returns every entity type excluded for query,
// deduplicated and sorted.
func (r *Resolver) ExcludedEntityTypesFor(query string) []string {
	if r.cache == nil {
		return r.resolve(query)
	}

	key := normalize(query)
	version := r.registry.Version()

	r.cacheMu.Lock()
	if version != r.cacheVersion {
		r.cache.Purge()
		r.cacheVersion = version
	}
	cached, ok := r.cache.Get(key)
	r.cacheMu.Unlock()
	if ok {
		return slices.Clone(cached)
	}

	resolved := r.resolve(query)

	r.cacheMu.Lock()
	if version == r.cacheVersion {
		r.cache.Add(key, resolved)
	}
	r.cacheMu.Unlock()

	return slices.Clone(resolved)
}

func (r *Resolver) resolve(query string) []string {
	seen := make(map[string]struct{})
	excluded := []string{}

	r.registry.each(func(p Pattern, entityTypes []string) bool {
		if !p.Match(query) {
			return true
		}
		for _, entityType := range entityTypes {
			if _, ok := seen[entityType]; ok {
				continue
			}
			seen[entityType] = struct{}{}
			excluded = append(excluded, entityType)
		}
		return true
	})

	slices.Sort(excluded)
	return excluded
}

// ExplainExclusion reports whether entityType is excluded for query and why
func (r *Resolver) ExplainExclusion(query, entityType string) (bool, string) {
	var matched *Pattern
	r.registry.each(func(p Pattern, entityTypes []string) bool {
		if slices.Contains(entityTypes, entityType) && p.Match(query) {
			matched = &p
			return false
		}
		return true
	})

	if matched == nil {
		return false, "no exclusion pattern matched"
	}

	return true, fmt.Sprintf("excluded by %s", matched)
}
