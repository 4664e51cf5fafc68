package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/toolhive-search/internal/otel"
)

const (
	// ProviderTracerName is the name used for the result assembly tracer
	ProviderTracerName = "github.com/stacklok/toolhive-search/search"
)

// Excluder decides whether an entity type is left out of a search
type Excluder interface {
	IsExcluded(query, entityType string) bool
}

// Explainer is implemented by excluders that can say which rule excluded
// an entity type
type Explainer interface {
	ExplainExclusion(query, entityType string) (bool, string)
}

// Options selects the result assembly behaviour
type Options struct {
	// ApplyLimit bounds every full-text query by Limit
	ApplyLimit bool
	// Limit is the per entity type bound, resolved with ResolveLimit when zero
	Limit int
	// CheckTypeName also checks exclusions against TypeNameOf
	CheckTypeName bool
}

// PresetOptions returns the default options for a backend. Dedicated search
// engines return their own page of hits and are not bounded further.
func PresetOptions(backend string) Options {
	if backend == "meilisearch" {
		return Options{ApplyLimit: false, CheckTypeName: true}
	}
	return Options{ApplyLimit: true, CheckTypeName: false}
}

// Provider builds global search results from a fixed list of entity types
type Provider struct {
	entities []EntityType
	excluder Excluder
	opts     Options
	tracer   trace.Tracer
}

// ProviderOption configures a Provider
type ProviderOption func(*Provider) error

// WithOptions sets the result assembly options
func WithOptions(opts Options) ProviderOption {
	return func(p *Provider) error {
		if opts.Limit < 0 {
			return fmt.Errorf("invalid result limit: %d", opts.Limit)
		}
		p.opts = opts
		return nil
	}
}

// WithLimit overrides the per entity type result limit
func WithLimit(limit int) ProviderOption {
	return func(p *Provider) error {
		if limit <= 0 {
			return fmt.Errorf("invalid result limit: %d", limit)
		}
		p.opts.Limit = limit
		return nil
	}
}

// WithTracer sets the tracer used for search spans
func WithTracer(tracer trace.Tracer) ProviderOption {
	return func(p *Provider) error {
		p.tracer = tracer
		return nil
	}
}

// NewProvider creates a provider over the entity types, in the given order
func NewProvider(entities []EntityType, excluder Excluder, opts ...ProviderOption) (*Provider, error) {
	if excluder == nil {
		return nil, fmt.Errorf("excluder is required")
	}

	p := &Provider{
		entities: entities,
		excluder: excluder,
		opts:     PresetOptions(""),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.opts.ApplyLimit {
		p.opts.Limit = ResolveLimit(p.opts.Limit)
	}
	return p, nil
}

// Options returns the effective options
func (p *Provider) Options() Options {
	return p.opts
}

// EntityTypes returns the entity types searched by the provider
func (p *Provider) EntityTypes() []EntityType {
	return p.entities
}

// GetResults runs a global search using the provider's excluder
func (p *Provider) GetResults(ctx context.Context, query string) (*Results, error) {
	return p.GetResultsWith(ctx, query, p.excluder)
}

// GetResultsWith runs a global search deciding exclusions with excluder.
// A misconfigured entity type aborts the search with ErrNotSearchable.
func (p *Provider) GetResultsWith(ctx context.Context, query string, excluder Excluder) (*Results, error) {
	ctx, span := otel.StartSpan(ctx, p.tracer, "search.GetResults",
		trace.WithAttributes(
			otel.AttrQueryLength.Int(len(strings.TrimSpace(query))),
			otel.AttrEntityCount.Int(len(p.entities)),
		))
	defer span.End()

	results := NewResults()
	for _, e := range p.entities {
		if !e.CanGloballySearch() {
			continue
		}

		if p.isExcluded(excluder, query, e) {
			if slog.Default().Enabled(ctx, slog.LevelDebug) {
				slog.DebugContext(ctx, "Skipping excluded entity type",
					"entity", e.ID(),
					"query", query,
					"reason", p.exclusionReason(excluder, query, e))
			}
			continue
		}

		searcher := SearcherOf(e)
		if searcher == nil {
			err := notSearchable(e.ID())
			otel.RecordError(span, err)
			return nil, err
		}

		category, err := p.searchEntity(ctx, e, searcher, query)
		if err != nil {
			otel.RecordError(span, err)
			return nil, err
		}
		results.Category(e.PluralLabel(), category)
	}

	span.SetAttributes(
		otel.AttrCategoryCount.Int(len(results.Categories)),
		otel.AttrResultCount.Int(results.Count()),
	)
	return results, nil
}

func (p *Provider) isExcluded(excluder Excluder, query string, e EntityType) bool {
	if excluder.IsExcluded(query, e.ID()) {
		return true
	}
	return p.opts.CheckTypeName && excluder.IsExcluded(query, TypeNameOf(e))
}

func (p *Provider) exclusionReason(excluder Excluder, query string, e EntityType) string {
	explainer, ok := excluder.(Explainer)
	if !ok {
		return "excluded"
	}
	if excluded, reason := explainer.ExplainExclusion(query, e.ID()); excluded {
		return reason
	}
	if p.opts.CheckTypeName {
		if excluded, reason := explainer.ExplainExclusion(query, TypeNameOf(e)); excluded {
			return reason + " (type name)"
		}
	}
	return "excluded"
}

func (p *Provider) searchEntity(
	ctx context.Context,
	e EntityType,
	searcher FullTextSearcher,
	query string,
) ([]Result, error) {
	limit := 0
	if p.opts.ApplyLimit {
		limit = p.opts.Limit
	}

	ctx, span := otel.StartSpan(ctx, p.tracer, "search.Entity",
		trace.WithAttributes(
			otel.AttrEntityType.String(e.ID()),
			otel.AttrTypeName.String(TypeNameOf(e)),
			attribute.Int("search.limit", limit),
		))
	defer span.End()

	records, err := searcher.Search(ctx, query, limit)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to search %s: %w", e.ID(), err)
	}

	results := make([]Result, 0, len(records))
	for _, record := range records {
		url := e.ResultURL(record)
		if strings.TrimSpace(url) == "" {
			continue
		}
		results = append(results, Result{
			Title:   e.ResultTitle(record),
			URL:     url,
			Details: e.ResultDetails(record),
			Actions: e.ResultActions(record),
		})
	}

	span.SetAttributes(otel.AttrResultCount.Int(len(results)))
	return results, nil
}
