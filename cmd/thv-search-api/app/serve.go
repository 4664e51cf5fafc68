package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	searchapp "github.com/stacklok/toolhive-search/internal/app"
	"github.com/stacklok/toolhive-search/internal/telemetry"
)

const (
	defaultAddress         = ":8080"
	defaultGracefulTimeout = 30 * time.Second // Kubernetes-friendly shutdown time
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the search API server",
		Long: `Start the search API server.

The server requires a configuration file (--config) that specifies:
- The full-text backend (bleve, meilisearch or postgres) and its connection
- The entity types to search and how their results are presented
- Exclusion rules, globally and per role
- Authentication and telemetry settings

See the examples/ directory for sample configurations.`,
		RunE: runServe,
	}

	cmd.Flags().String("address", defaultAddress, "Address to listen on")
	cmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	cmd.Flags().Duration("shutdown-timeout", defaultGracefulTimeout, "Time allowed for graceful shutdown")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	v, err := bindFlags(cmd.Flags())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	tel, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown telemetry", "error", err)
		}
	}()

	server, err := searchapp.NewSearchApp(ctx,
		searchapp.WithConfig(cfg),
		searchapp.WithAddress(v.GetString("address")),
		searchapp.WithMeterProvider(tel.MeterProvider()),
		searchapp.WithTracerProvider(tel.TracerProvider()),
		searchapp.WithMetricsHandler(tel.MetricsHandler()),
	)
	if err != nil {
		return fmt.Errorf("failed to create search server: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	timeout := v.GetDuration("shutdown-timeout")
	select {
	case err := <-errChan:
		// Start only returns early on failure
		if stopErr := server.Stop(timeout); stopErr != nil {
			slog.Error("Failed to stop server", "error", stopErr)
		}
		return err
	case <-ctx.Done():
	}

	if err := server.Stop(timeout); err != nil {
		return err
	}
	return <-errChan
}
