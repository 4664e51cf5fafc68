package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	searchapp "github.com/stacklok/toolhive-search/internal/app"
	"github.com/stacklok/toolhive-search/internal/entity"
)

const defaultPingTimeout = 10 * time.Second

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validate a configuration file and check that every globally searchable entity
type can be searched by the configured backend.

With --ping the backend is also contacted once.`,
		RunE: runValidate,
	}

	cmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	cmd.Flags().Bool("ping", false, "Also check that the backend is reachable")

	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	v, err := bindFlags(cmd.Flags())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := searchapp.DefaultBackendFactory(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open search backend: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			slog.Warn("Failed to close search backend", "error", err)
		}
	}()

	entities, err := entity.Build(cfg.Entities, b)
	if err != nil {
		return err
	}
	if err := entity.Validate(entities); err != nil {
		return fmt.Errorf("invalid entity configuration: %w", err)
	}

	if v.GetBool("ping") {
		pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
		defer cancel()
		if err := b.Ping(pingCtx); err != nil {
			return fmt.Errorf("search backend %s is not reachable: %w", b.Name(), err)
		}
	}

	slog.Info("Configuration is valid", "backend", b.Name(), "entities", len(entities))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
	return err
}
