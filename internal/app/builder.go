package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/toolhive-search/internal/api"
	"github.com/stacklok/toolhive-search/internal/auth"
	"github.com/stacklok/toolhive-search/internal/backend"
	"github.com/stacklok/toolhive-search/internal/config"
	"github.com/stacklok/toolhive-search/internal/entity"
	"github.com/stacklok/toolhive-search/internal/exclusion"
	"github.com/stacklok/toolhive-search/internal/search"
	"github.com/stacklok/toolhive-search/internal/telemetry"
)

const (
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
	defaultBackendTimeout = 2 * time.Minute

	metricsPath = "/metrics"
)

// defaultPublicPaths are paths that never require authentication
var defaultPublicPaths = []string{"/health", "/readiness", "/version"}

// SearchAppOption configures the search app builder
type SearchAppOption func(*searchAppConfig) error

// searchAppConfig collects the builder options. Component overrides exist
// so tests can run without external engines.
type searchAppConfig struct {
	config *config.Config

	backendFactory BackendFactory
	backend        backend.Backend

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// backendTimeout bounds how long Start waits for the backend
	backendTimeout time.Duration

	authMiddleware func(http.Handler) http.Handler

	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...SearchAppOption) (*searchAppConfig, error) {
	cfg := &searchAppConfig{
		backendFactory: DefaultBackendFactory,
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
		backendTimeout: defaultBackendTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// NewSearchApp wires the exclusion registry, search backend, search service
// and HTTP server described by the configuration
func NewSearchApp(
	ctx context.Context,
	opts ...SearchAppOption,
) (*SearchApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}
	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	registry := buildRegistry(ctx, cfg)

	if cfg.backend == nil {
		cfg.backend, err = cfg.backendFactory(ctx, cfg.config)
		if err != nil {
			return nil, fmt.Errorf("failed to open search backend: %w", err)
		}
	}

	// Close the backend unless the app takes ownership of it
	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			if err := cfg.backend.Close(); err != nil {
				slog.Warn("Failed to close search backend", "error", err)
			}
		}
	}()

	svc, err := buildServiceComponents(cfg, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to build service components: %w", err)
	}

	if cfg.authMiddleware == nil {
		cfg.authMiddleware, err = auth.NewAuthMiddleware(cfg.config.Auth, auth.DefaultValidatorFactory)
		if err != nil {
			return nil, fmt.Errorf("failed to build auth middleware: %w", err)
		}
	}

	httpServer, err := buildHTTPServer(cfg, svc)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)
	cleanupNeeded = false

	return &SearchApp{
		config: cfg.config,
		components: &AppComponents{
			Registry:      registry,
			Backend:       cfg.backend,
			SearchService: svc,
		},
		httpServer:     httpServer,
		backendTimeout: cfg.backendTimeout,
		ctx:            appCtx,
		cancelFunc:     cancel,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) SearchAppOption {
	return func(cfg *searchAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) SearchAppOption {
	return func(cfg *searchAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, found := strings.Cut(addr, ":")
		if !found || port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		switch host {
		case "localhost":
			host = "127.0.0.1"
		case "":
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares replaces the default HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) SearchAppOption {
	return func(cfg *searchAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithBackend injects an already opened search backend
func WithBackend(b backend.Backend) SearchAppOption {
	return func(cfg *searchAppConfig) error {
		if b == nil {
			return errors.New("backend cannot be nil")
		}
		cfg.backend = b
		return nil
	}
}

// WithBackendFactory replaces the factory used to open the configured backend
func WithBackendFactory(f BackendFactory) SearchAppOption {
	return func(cfg *searchAppConfig) error {
		if f == nil {
			return errors.New("backend factory cannot be nil")
		}
		cfg.backendFactory = f
		return nil
	}
}

// WithBackendTimeout bounds how long Start waits for the backend to become ready
func WithBackendTimeout(d time.Duration) SearchAppOption {
	return func(cfg *searchAppConfig) error {
		if d <= 0 {
			return fmt.Errorf("backend timeout must be positive, got %s", d)
		}
		cfg.backendTimeout = d
		return nil
	}
}

// WithAuthMiddleware replaces the middleware built from the auth configuration
func WithAuthMiddleware(mw func(http.Handler) http.Handler) SearchAppOption {
	return func(cfg *searchAppConfig) error {
		cfg.authMiddleware = mw
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for search and HTTP metrics
func WithMeterProvider(mp metric.MeterProvider) SearchAppOption {
	return func(cfg *searchAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider for search and HTTP spans
func WithTracerProvider(tp trace.TracerProvider) SearchAppOption {
	return func(cfg *searchAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMetricsHandler serves h at /metrics without authentication
func WithMetricsHandler(h http.Handler) SearchAppOption {
	return func(cfg *searchAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

// buildRegistry loads the configured exclusion rules
func buildRegistry(ctx context.Context, b *searchAppConfig) *exclusion.Registry {
	registry := exclusion.NewRegistry()
	registry.AddRules(b.config.Exclusions)
	slog.Info("Exclusion rules loaded", "patterns", registry.Len())

	if b.meterProvider != nil {
		metrics, err := telemetry.NewExclusionMetrics(b.meterProvider)
		if err != nil {
			slog.Warn("Failed to create exclusion metrics", "error", err)
		} else {
			metrics.RecordRulesTotal(ctx, int64(registry.Len()))
		}
	}
	return registry
}

// roleRules converts the configured role exclusions
func roleRules(cfgs []config.RoleExclusionConfig) []exclusion.RoleRule {
	if len(cfgs) == 0 {
		return nil
	}
	rules := make([]exclusion.RoleRule, 0, len(cfgs))
	for _, c := range cfgs {
		rules = append(rules, exclusion.RoleRule{
			Pattern:     c.Pattern,
			EntityTypes: c.Entities,
			NonAdmins:   c.NonAdmins,
			Roles:       c.Roles,
		})
	}
	return rules
}

// providerOptions starts from the backend preset and applies explicit overrides
func providerOptions(s config.SearchConfig) search.Options {
	opts := search.PresetOptions(s.GetBackend())
	if s.ApplyLimit != nil {
		opts.ApplyLimit = *s.ApplyLimit
	}
	if s.CheckTypeName != nil {
		opts.CheckTypeName = *s.CheckTypeName
	}
	opts.Limit = s.ResultLimit
	return opts
}

// buildServiceComponents builds the entity types, resolver, provider and search service
func buildServiceComponents(
	b *searchAppConfig,
	registry *exclusion.Registry,
) (search.Service, error) {
	slog.Info("Initializing search components", "backend", b.backend.Name())

	entities, err := entity.Build(b.config.Entities, b.backend)
	if err != nil {
		return nil, err
	}
	// Misconfigured entities fail their searches with ErrNotSearchable
	if err := entity.Validate(entities); err != nil {
		slog.Warn("Some entity types cannot be searched", "error", err)
	}

	resolver, err := exclusion.NewResolver(registry, exclusion.WithCache(b.config.Search.GetCacheSize()))
	if err != nil {
		return nil, err
	}

	providerOpts := []search.ProviderOption{search.WithOptions(providerOptions(b.config.Search))}
	if b.tracerProvider != nil {
		providerOpts = append(providerOpts, search.WithTracer(b.tracerProvider.Tracer(search.ProviderTracerName)))
	}
	provider, err := search.NewProvider(entities, resolver, providerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search provider: %w", err)
	}

	svcOpts := []search.ServiceOption{
		search.WithBackendName(b.backend.Name()),
		search.WithReadinessCheck(b.backend.Ping),
		search.WithRoleRules(roleRules(b.config.RoleExclusions)),
	}
	if b.meterProvider != nil {
		metrics, err := telemetry.NewSearchMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create search metrics: %w", err)
		}
		svcOpts = append(svcOpts, search.WithSearchMetrics(metrics))
	}

	svc, err := search.NewService(provider, resolver, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	searchable := 0
	for _, e := range provider.EntityTypes() {
		if e.CanGloballySearch() {
			searchable++
		}
	}
	opts := provider.Options()
	slog.Info("Search components initialized",
		"entities", len(entities),
		"searchable", searchable,
		"apply_limit", opts.ApplyLimit,
		"limit", opts.Limit,
		"check_type_name", opts.CheckTypeName,
		"role_rules", len(b.config.RoleExclusions),
	)
	return svc, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(
	b *searchAppConfig,
	svc search.Service,
) (*http.Server, error) {
	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Telemetry goes first to capture requests rejected by auth
	var observability []func(http.Handler) http.Handler
	if b.tracerProvider != nil {
		observability = append(observability, telemetry.TracingMiddleware(b.tracerProvider))
	}
	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		observability = append(observability, metricsMiddleware)
	}
	b.middlewares = append(observability, b.middlewares...)

	publicPaths := append([]string{}, defaultPublicPaths...)
	serverOpts := []api.ServerOption{}
	if b.metricsHandler != nil {
		publicPaths = append(publicPaths, metricsPath)
		serverOpts = append(serverOpts, api.WithMetricsHandler(metricsPath, b.metricsHandler))
	}
	if b.config.Auth != nil {
		publicPaths = append(publicPaths, b.config.Auth.PublicPaths...)
	}
	b.middlewares = append(b.middlewares, auth.WrapWithPublicPaths(b.authMiddleware, publicPaths))
	serverOpts = append(serverOpts, api.WithMiddlewares(b.middlewares...))

	router := api.NewServer(svc, serverOpts...)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
