package app

import (
	"github.com/stacklok/toolhive-search/internal/backend"
	"github.com/stacklok/toolhive-search/internal/exclusion"
	"github.com/stacklok/toolhive-search/internal/search"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Registry holds the exclusion rules loaded at startup
	Registry *exclusion.Registry

	// Backend provides full-text search for the configured entities
	Backend backend.Backend

	// SearchService serves the HTTP API
	SearchService search.Service
}
