package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stacklok/toolhive-search/internal/exclusion"
	"github.com/stacklok/toolhive-search/internal/telemetry"
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go Service

// Service defines the operations exposed over HTTP
type Service interface {
	// CheckReadiness checks if the search backend is ready to serve requests
	CheckReadiness(ctx context.Context) error

	// GlobalSearch runs a search on behalf of principal
	GlobalSearch(ctx context.Context, query string, principal exclusion.Principal) (*Results, error)

	// ExclusionRules returns the configured exclusion rules
	ExclusionRules(ctx context.Context) []exclusion.Rule

	// ResolveExclusions returns the entity types excluded for query and principal
	ResolveExclusions(ctx context.Context, query string, principal exclusion.Principal) []string
}

// ReadinessFunc reports whether a backend can serve searches
type ReadinessFunc func(ctx context.Context) error

type searchService struct {
	provider  *Provider
	resolver  *exclusion.Resolver
	roleRules []exclusion.RoleRule
	readiness ReadinessFunc
	backend   string
	metrics   *telemetry.SearchMetrics
}

var _ Service = (*searchService)(nil)

// ServiceOption configures the search service
type ServiceOption func(*searchService) error

// WithRoleRules sets the rules applied per request depending on the principal
func WithRoleRules(rules []exclusion.RoleRule) ServiceOption {
	return func(s *searchService) error {
		s.roleRules = rules
		return nil
	}
}

// WithReadinessCheck sets the backend readiness check
func WithReadinessCheck(check ReadinessFunc) ServiceOption {
	return func(s *searchService) error {
		s.readiness = check
		return nil
	}
}

// WithBackendName labels metrics with the backend name
func WithBackendName(name string) ServiceOption {
	return func(s *searchService) error {
		s.backend = name
		return nil
	}
}

// WithSearchMetrics sets the metrics recorded for every search
func WithSearchMetrics(metrics *telemetry.SearchMetrics) ServiceOption {
	return func(s *searchService) error {
		s.metrics = metrics
		return nil
	}
}

// NewService creates a search service over provider. Exclusions are decided
// by resolver, layered with role rules for each principal.
func NewService(provider *Provider, resolver *exclusion.Resolver, opts ...ServiceOption) (Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}

	s := &searchService{
		provider: provider,
		resolver: resolver,
		backend:  "unknown",
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// CheckReadiness implements Service.CheckReadiness
func (s *searchService) CheckReadiness(ctx context.Context) error {
	if s.readiness == nil {
		return nil
	}
	if err := s.readiness(ctx); err != nil {
		return fmt.Errorf("search backend %s not ready: %w", s.backend, err)
	}
	return nil
}

// GlobalSearch implements Service.GlobalSearch
func (s *searchService) GlobalSearch(
	ctx context.Context,
	query string,
	principal exclusion.Principal,
) (*Results, error) {
	resolver := s.resolverFor(principal)

	start := time.Now()
	results, err := s.provider.GetResultsWith(ctx, query, resolver)
	s.metrics.RecordSearchDuration(ctx, s.backend, time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordExcluded(ctx, resolver.ExcludedEntityTypesFor(query))
	}

	slog.Debug("Global search completed",
		"backend", s.backend,
		"categories", len(results.Categories),
		"results", results.Count())
	return results, nil
}

// ExclusionRules implements Service.ExclusionRules
func (s *searchService) ExclusionRules(_ context.Context) []exclusion.Rule {
	return s.resolver.Registry().Rules()
}

// ResolveExclusions implements Service.ResolveExclusions
func (s *searchService) ResolveExclusions(
	_ context.Context,
	query string,
	principal exclusion.Principal,
) []string {
	return s.resolverFor(principal).ExcludedEntityTypesFor(query)
}

// resolverFor returns the shared resolver unless role rules apply to the
// principal, in which case they are layered onto a copy of the registry.
func (s *searchService) resolverFor(principal exclusion.Principal) *exclusion.Resolver {
	// Role rules only ever apply to authenticated principals
	if len(s.roleRules) == 0 || principal == nil || !principal.IsAuthenticated() {
		return s.resolver
	}

	registry := s.resolver.Registry().Clone()
	if registry.ApplyRoleRules(principal, s.roleRules) == 0 {
		return s.resolver
	}

	resolver, err := exclusion.NewResolver(registry)
	if err != nil {
		slog.Warn("Failed to build per-principal resolver, using shared rules", "error", err)
		return s.resolver
	}
	return resolver
}
