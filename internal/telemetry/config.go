package telemetry

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultServiceName is the service name reported when none is configured
	DefaultServiceName = "thv-search-api"

	// DefaultEndpoint is the OTLP/HTTP collector endpoint
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling is the trace sampling ratio used when none is configured
	DefaultSampling = 0.05

	// DefaultMetricsInterval is how often metrics are pushed to the collector
	DefaultMetricsInterval = 60 * time.Second

	unknownVersion = "unknown"
)

// Config is the telemetry section of the server configuration.
// A nil or disabled Config produces no-op providers.
type Config struct {
	Enabled        bool   `yaml:"enabled"`
	ServiceName    string `yaml:"serviceName,omitempty"`
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is the collector address as host:port. The exporters append
	// /v1/traces and /v1/metrics themselves.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure sends telemetry over plain HTTP
	Insecure bool `yaml:"insecure,omitempty"`

	// Headers are sent with every export request, typically for collector auth
	Headers map[string]string `yaml:"headers,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig configures span export
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling is the ratio of traces kept, between 0.0 and 1.0.
	// Zero means DefaultSampling.
	Sampling float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig configures metric export
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Interval between pushes. Zero means DefaultMetricsInterval.
	Interval time.Duration `yaml:"interval,omitempty"`

	// Prometheus also serves the metrics for scraping at /metrics
	Prometheus bool `yaml:"prometheus,omitempty"`
}

// GetServiceName returns the service name, or DefaultServiceName
func (c *Config) GetServiceName() string {
	if c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns the service version, or "unknown"
func (c *Config) GetServiceVersion() string {
	if c.ServiceVersion == "" {
		return unknownVersion
	}
	return c.ServiceVersion
}

// GetEndpoint returns the collector endpoint, or DefaultEndpoint
func (c *Config) GetEndpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// TracingEnabled reports whether spans should be exported
func (c *Config) TracingEnabled() bool {
	return c != nil && c.Enabled && c.Tracing != nil && c.Tracing.Enabled
}

// MetricsEnabled reports whether metrics should be exported
func (c *Config) MetricsEnabled() bool {
	return c != nil && c.Enabled && c.Metrics != nil && c.Metrics.Enabled
}

// GetSampling returns the sampling ratio. An unset value cannot be told
// apart from an explicit 0 in YAML, so both map to DefaultSampling.
func (c *TracingConfig) GetSampling() float64 {
	if c == nil || c.Sampling == 0 {
		return DefaultSampling
	}
	return c.Sampling
}

// PrometheusEnabled reports whether metrics are served for scraping
func (c *Config) PrometheusEnabled() bool {
	return c.MetricsEnabled() && c.Metrics.Prometheus
}

// GetInterval returns the export interval, or DefaultMetricsInterval
func (c *MetricsConfig) GetInterval() time.Duration {
	if c == nil || c.Interval <= 0 {
		return DefaultMetricsInterval
	}
	return c.Interval
}

// Validate checks the telemetry configuration. Disabled telemetry is always valid.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error
	for name := range c.Headers {
		if name == "" {
			errs = append(errs, errors.New("headers: header name must not be empty"))
		}
	}
	if c.Tracing != nil && c.Tracing.Enabled {
		if s := c.Tracing.Sampling; s < 0 || s > 1 {
			errs = append(errs, fmt.Errorf("tracing: sampling must be between 0.0 and 1.0, got %f", s))
		}
	}
	if c.Metrics != nil && c.Metrics.Enabled && c.Metrics.Interval < 0 {
		errs = append(errs, fmt.Errorf("metrics: interval must not be negative, got %s", c.Metrics.Interval))
	}

	return errors.Join(errs...)
}
