package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// collectScope returns the metrics recorded under the named meter
func collectScope(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name == name {
			return scope.Metrics
		}
	}
	return nil
}

func TestNewExclusionMetrics(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when provider is nil", func(t *testing.T) {
		t.Parallel()

		metrics, err := NewExclusionMetrics(nil)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("creates metrics with SDK provider", func(t *testing.T) {
		t.Parallel()

		mp := sdkmetric.NewMeterProvider()
		defer func() { _ = mp.Shutdown(context.Background()) }()

		metrics, err := NewExclusionMetrics(mp)
		require.NoError(t, err)
		assert.NotNil(t, metrics)
		assert.NotNil(t, metrics.rulesTotal)
	})
}

func TestExclusionMetrics_RecordRulesTotal(t *testing.T) {
	t.Parallel()

	t.Run("no-op when metrics is nil", func(t *testing.T) {
		t.Parallel()

		var metrics *ExclusionMetrics
		metrics.RecordRulesTotal(context.Background(), 10)
	})

	t.Run("records rule count", func(t *testing.T) {
		t.Parallel()

		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer func() { _ = mp.Shutdown(context.Background()) }()

		metrics, err := NewExclusionMetrics(mp)
		require.NoError(t, err)
		require.NotNil(t, metrics)

		metrics.RecordRulesTotal(context.Background(), 7)

		found := false
		for _, m := range collectScope(t, reader, ExclusionMetricsMeterName) {
			if m.Name != "thv_search_exclusion_rules_total" {
				continue
			}
			gauge, ok := m.Data.(metricdata.Gauge[int64])
			require.True(t, ok, "expected gauge data type")
			require.Len(t, gauge.DataPoints, 1)
			assert.Equal(t, int64(7), gauge.DataPoints[0].Value)
			found = true
		}
		assert.True(t, found, "expected to find rules gauge")
	})
}

func TestNewSearchMetrics(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when provider is nil", func(t *testing.T) {
		t.Parallel()

		metrics, err := NewSearchMetrics(nil)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("creates metrics with SDK provider", func(t *testing.T) {
		t.Parallel()

		mp := sdkmetric.NewMeterProvider()
		defer func() { _ = mp.Shutdown(context.Background()) }()

		metrics, err := NewSearchMetrics(mp)
		require.NoError(t, err)
		assert.NotNil(t, metrics)
		assert.NotNil(t, metrics.searchDuration)
		assert.NotNil(t, metrics.excludedTotal)
	})
}

func TestSearchMetrics_RecordSearchDuration(t *testing.T) {
	t.Parallel()

	t.Run("no-op when metrics is nil", func(t *testing.T) {
		t.Parallel()

		var metrics *SearchMetrics
		metrics.RecordSearchDuration(context.Background(), "bleve", time.Second, true)
		metrics.RecordExcluded(context.Background(), []string{"UserResource"})
	})

	t.Run("records duration in seconds", func(t *testing.T) {
		t.Parallel()

		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer func() { _ = mp.Shutdown(context.Background()) }()

		metrics, err := NewSearchMetrics(mp)
		require.NoError(t, err)

		metrics.RecordSearchDuration(context.Background(), "bleve", 250*time.Millisecond, true)

		found := false
		for _, m := range collectScope(t, reader, SearchMetricsMeterName) {
			if m.Name != "thv_search_duration_seconds" {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			require.True(t, ok, "expected histogram data type")
			require.NotEmpty(t, hist.DataPoints)
			assert.InDelta(t, 0.25, hist.DataPoints[0].Sum, 0.001)
			found = true
		}
		assert.True(t, found, "expected to find duration histogram")
	})
}

func TestSearchMetrics_RecordExcluded(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewSearchMetrics(mp)
	require.NoError(t, err)

	metrics.RecordExcluded(context.Background(), []string{"UserResource", "CertificateResource"})
	metrics.RecordExcluded(context.Background(), []string{"UserResource"})
	metrics.RecordExcluded(context.Background(), nil)

	counts := map[string]int64{}
	for _, m := range collectScope(t, reader, SearchMetricsMeterName) {
		if m.Name != "thv_search_excluded_entity_types_total" {
			continue
		}
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok, "expected sum data type")
		for _, dp := range sum.DataPoints {
			v, _ := dp.Attributes.Value("entity_type")
			counts[v.AsString()] = dp.Value
		}
	}
	assert.Equal(t, map[string]int64{"UserResource": 2, "CertificateResource": 1}, counts)
}
