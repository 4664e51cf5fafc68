package app

import (
	"context"
	"fmt"

	"github.com/stacklok/toolhive-search/internal/backend"
	"github.com/stacklok/toolhive-search/internal/backend/bleveindex"
	"github.com/stacklok/toolhive-search/internal/backend/meili"
	"github.com/stacklok/toolhive-search/internal/backend/pgsearch"
	"github.com/stacklok/toolhive-search/internal/config"
	"github.com/stacklok/toolhive-search/internal/db"
)

// BackendFactory opens the search backend selected by the configuration
type BackendFactory func(ctx context.Context, cfg *config.Config) (backend.Backend, error)

// DefaultBackendFactory opens bleve, Meilisearch or PostgreSQL depending on search.backend
func DefaultBackendFactory(ctx context.Context, cfg *config.Config) (backend.Backend, error) {
	switch name := cfg.Search.GetBackend(); name {
	case config.BackendBleve:
		return bleveindex.New(cfg.Bleve)
	case config.BackendMeilisearch:
		return meili.New(cfg.Meilisearch)
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return pgsearch.New(pool), nil
	default:
		return nil, fmt.Errorf("unknown search backend: %s", name)
	}
}
