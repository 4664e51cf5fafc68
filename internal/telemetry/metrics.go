package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// ExclusionMetricsMeterName is the name used for the exclusion rule metrics meter
	ExclusionMetricsMeterName = "github.com/stacklok/toolhive-search/exclusion"

	// SearchMetricsMeterName is the name used for the global search metrics meter
	SearchMetricsMeterName = "github.com/stacklok/toolhive-search/search"
)

// ExclusionMetrics holds the OpenTelemetry instruments for exclusion rules
type ExclusionMetrics struct {
	rulesTotal metric.Int64Gauge
}

// NewExclusionMetrics creates a new ExclusionMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewExclusionMetrics(provider metric.MeterProvider) (*ExclusionMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(ExclusionMetricsMeterName)

	rulesTotal, err := meter.Int64Gauge(
		"thv_search_exclusion_rules_total",
		metric.WithDescription("Number of registered exclusion patterns"),
		metric.WithUnit("{rule}"),
	)
	if err != nil {
		return nil, err
	}

	return &ExclusionMetrics{
		rulesTotal: rulesTotal,
	}, nil
}

// RecordRulesTotal records the number of exclusion patterns
func (m *ExclusionMetrics) RecordRulesTotal(ctx context.Context, count int64) {
	if m == nil || m.rulesTotal == nil {
		return
	}
	m.rulesTotal.Record(ctx, count)
}

// SearchMetrics holds the OpenTelemetry instruments for global searches
type SearchMetrics struct {
	searchDuration metric.Float64Histogram
	excludedTotal  metric.Int64Counter
}

// NewSearchMetrics creates a new SearchMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSearchMetrics(provider metric.MeterProvider) (*SearchMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SearchMetricsMeterName)

	searchDuration, err := meter.Float64Histogram(
		"thv_search_duration_seconds",
		metric.WithDescription("Duration of global searches in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5),
	)
	if err != nil {
		return nil, err
	}

	excludedTotal, err := meter.Int64Counter(
		"thv_search_excluded_entity_types_total",
		metric.WithDescription("Number of times an entity type was excluded from a search"),
		metric.WithUnit("{entity_type}"),
	)
	if err != nil {
		return nil, err
	}

	return &SearchMetrics{
		searchDuration: searchDuration,
		excludedTotal:  excludedTotal,
	}, nil
}

// RecordSearchDuration records how long a global search took on a backend
func (m *SearchMetrics) RecordSearchDuration(ctx context.Context, backend string, duration time.Duration, success bool) {
	if m == nil || m.searchDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("backend", backend),
		attribute.Bool("success", success),
	}

	m.searchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordExcluded counts the entity types excluded from one search
func (m *SearchMetrics) RecordExcluded(ctx context.Context, entityTypes []string) {
	if m == nil || m.excludedTotal == nil {
		return
	}

	for _, entityType := range entityTypes {
		m.excludedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("entity_type", entityType)))
	}
}
