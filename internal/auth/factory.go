package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/stacklok/toolhive-search/internal/config"
)

// NewAuthMiddleware creates authentication middleware based on config.
// A nil config selects anonymous mode.
func NewAuthMiddleware(cfg *config.AuthConfig, factory ValidatorFactory) (func(http.Handler) http.Handler, error) {
	switch cfg.GetMode() {
	case config.AuthModeAnonymous:
		slog.Info("auth: anonymous mode")
		return anonymousMiddleware, nil
	case config.AuthModeJWT:
		return createJWTMiddleware(cfg, factory)
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", cfg.Mode)
	}
}

// createJWTMiddleware creates bearer token middleware from config
func createJWTMiddleware(cfg *config.AuthConfig, factory ValidatorFactory) (func(http.Handler) http.Handler, error) {
	if cfg.JWT == nil {
		return nil, errors.New("jwt configuration is required for jwt mode")
	}
	if factory == nil {
		factory = DefaultValidatorFactory
	}

	validator, err := factory(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("failed to create token validator: %w", err)
	}

	realm := cfg.Realm
	if realm == "" {
		realm = defaultRealm
	}

	m := &jwtMiddleware{
		validator:  validator,
		realm:      realm,
		rolesClaim: cfg.JWT.GetRolesClaim(),
		adminRole:  cfg.JWT.GetAdminRole(),
	}

	slog.Info("auth: jwt mode", "issuer", cfg.JWT.Issuer, "roles_claim", m.rolesClaim)
	return m.Middleware, nil
}

// anonymousMiddleware passes requests through without authentication.
// Handlers then see an anonymous principal.
func anonymousMiddleware(next http.Handler) http.Handler {
	return next
}
