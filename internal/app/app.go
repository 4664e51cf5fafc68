// Package app provides application lifecycle management for the search server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/toolhive-search/internal/backend"
	"github.com/stacklok/toolhive-search/internal/config"
)

// SearchApp encapsulates all components needed to run the search API server.
// It provides lifecycle management and graceful shutdown.
type SearchApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	backendTimeout time.Duration

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start serves HTTP while waiting for the search backend to become ready.
// It blocks until the server stops, and fails if the backend never becomes
// ready or runs an unsupported version.
func (app *SearchApp) Start() error {
	g, gctx := errgroup.WithContext(app.ctx)

	g.Go(func() error {
		slog.Info("Server listening", "address", app.httpServer.Addr)
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := app.awaitBackend(gctx); err != nil {
			if closeErr := app.httpServer.Close(); closeErr != nil {
				slog.Warn("Failed to close HTTP server", "error", closeErr)
			}
			return err
		}
		return nil
	})

	return g.Wait()
}

// awaitBackend pings the backend with exponential backoff, then checks its
// version when the backend depends on an external server. Cancellation of
// ctx is not an error.
func (app *SearchApp) awaitBackend(ctx context.Context) error {
	b := app.components.Backend

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, b.Ping(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(app.backendTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("Search backend not ready, retrying", "backend", b.Name(), "error", err, "retry_in", next)
		}),
	)
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("search backend %s not ready: %w", b.Name(), err)
	}

	if vc, ok := b.(backend.VersionChecker); ok {
		if err := vc.CheckVersion(ctx); err != nil {
			return fmt.Errorf("search backend %s: %w", b.Name(), err)
		}
	}

	slog.Info("Search backend ready", "backend", b.Name())
	return nil
}

// Stop gracefully stops the HTTP server and closes the search backend
func (app *SearchApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server")

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}
	if app.components != nil && app.components.Backend != nil {
		if err := app.components.Backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close search backend: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *SearchApp) GetConfig() *config.Config {
	return app.config
}

// GetComponents returns the wired application components
func (app *SearchApp) GetComponents() *AppComponents {
	return app.components
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *SearchApp) GetHTTPServer() *http.Server {
	return app.httpServer
}
