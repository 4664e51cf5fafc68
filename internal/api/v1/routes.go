// Package v1 provides the REST API handlers for global search.
package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/toolhive-search/internal/api/common"
	"github.com/stacklok/toolhive-search/internal/auth"
	"github.com/stacklok/toolhive-search/internal/backend"
	"github.com/stacklok/toolhive-search/internal/exclusion"
	"github.com/stacklok/toolhive-search/internal/search"
	"github.com/stacklok/toolhive-search/internal/versions"
)

const queryParam = "q"

// ExclusionsResponse lists the configured exclusion rules
type ExclusionsResponse struct {
	Rules []exclusion.Rule `json:"rules"`
}

// ResolveResponse lists the entity types excluded for a query
type ResolveResponse struct {
	Query    string   `json:"query"`
	Excluded []string `json:"excluded"`
}

// Routes defines the search API routes
type Routes struct {
	service search.Service
}

// NewRoutes creates a new Routes instance with the provided service
func NewRoutes(svc search.Service) *Routes {
	return &Routes{service: svc}
}

// Router creates a new router for the search API
func Router(svc search.Service) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()
	r.Get("/search", routes.globalSearch)
	r.Get("/exclusions", routes.listExclusions)
	r.Get("/exclusions/resolve", routes.resolveExclusions)

	return r
}

// HealthRouter creates a router for health check endpoints
func HealthRouter(svc search.Service) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

// queryFrom returns the q parameter. A present but empty parameter is a
// valid query.
func queryFrom(r *http.Request) (string, bool) {
	values := r.URL.Query()
	if !values.Has(queryParam) {
		return "", false
	}
	return values.Get(queryParam), true
}

// globalSearch handles GET /v1/search
func (rr *Routes) globalSearch(w http.ResponseWriter, r *http.Request) {
	query, ok := queryFrom(r)
	if !ok {
		common.WriteErrorResponse(w, "query parameter q is required", http.StatusBadRequest)
		return
	}

	results, err := rr.service.GlobalSearch(r.Context(), query, auth.PrincipalFromContext(r.Context()))
	if err != nil {
		var backendErr *backend.Error
		switch {
		case errors.Is(err, search.ErrNotSearchable):
			slog.Error("Search misconfigured", "error", err)
			common.WriteErrorResponse(w, err.Error(), http.StatusInternalServerError)
		case errors.As(err, &backendErr):
			slog.Error("Search backend failed", "error", err, "backend", backendErr.Backend)
			common.WriteErrorResponse(w, "search backend failed", http.StatusBadGateway)
		default:
			slog.Error("Search failed", "error", err)
			common.WriteErrorResponse(w, "search failed", http.StatusInternalServerError)
		}
		return
	}

	common.WriteJSONResponse(w, results, http.StatusOK)
}

// listExclusions handles GET /v1/exclusions
func (rr *Routes) listExclusions(w http.ResponseWriter, r *http.Request) {
	rules := rr.service.ExclusionRules(r.Context())
	if rules == nil {
		rules = []exclusion.Rule{}
	}
	common.WriteJSONResponse(w, ExclusionsResponse{Rules: rules}, http.StatusOK)
}

// resolveExclusions handles GET /v1/exclusions/resolve
func (rr *Routes) resolveExclusions(w http.ResponseWriter, r *http.Request) {
	query, ok := queryFrom(r)
	if !ok {
		common.WriteErrorResponse(w, "query parameter q is required", http.StatusBadRequest)
		return
	}

	excluded := rr.service.ResolveExclusions(r.Context(), query, auth.PrincipalFromContext(r.Context()))
	if excluded == nil {
		excluded = []string{}
	}
	common.WriteJSONResponse(w, ResolveResponse{Query: query, Excluded: excluded}, http.StatusOK)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

func readinessHandler(svc search.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			slog.Warn("Readiness check failed", "error", err)
			common.WriteErrorResponse(w, "SearchService not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		common.WriteJSONResponse(w, map[string]string{"status": "ready"}, http.StatusOK)
	}
}

func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}
