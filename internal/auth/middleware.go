// Package auth turns bearer tokens into the principal that exclusion rules
// are evaluated against.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/stacklok/toolhive-search/internal/api/common"
)

// defaultRealm is reported in challenges when no realm is configured
const defaultRealm = "thv-search"

var errMissingBearer = errors.New("authorization header must use the Bearer scheme")

// rejection is an RFC 6750 error returned with a 401
type rejection struct {
	code        string
	description string
}

var (
	rejectMalformed = rejection{code: "invalid_request", description: "missing or malformed authorization header"}
	rejectToken     = rejection{code: "invalid_token", description: "token validation failed"}
)

// headerEscaper drops line breaks and escapes quotes for a quoted-string
var headerEscaper = strings.NewReplacer("\r", "", "\n", "", `"`, `\"`)

// jwtMiddleware maps bearer tokens to principals
type jwtMiddleware struct {
	validator  TokenValidator
	realm      string
	rolesClaim string
	adminRole  string
}

// Middleware rejects requests without a valid bearer token and stores the
// token's principal in the request context
func (m *jwtMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r)
		if err != nil {
			m.reject(w, r, rejectMalformed, err)
			return
		}

		claims, err := m.validator.ValidateToken(r.Context(), token)
		if err != nil {
			m.reject(w, r, rejectToken, err)
			return
		}

		principal := PrincipalFromClaims(claims, m.rolesClaim, m.adminRole)
		slog.Debug("Request authenticated",
			"subject", principal.Subject,
			"admin", principal.Admin,
			"roles", principal.Roles)
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func (m *jwtMiddleware) reject(w http.ResponseWriter, r *http.Request, rej rejection, cause error) {
	slog.Warn("Request rejected",
		"reason", rej.code,
		"error", cause,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm="%s", error="%s", error_description="%s"`,
		sanitizeHeaderValue(m.realm), rej.code, sanitizeHeaderValue(rej.description)))
	common.WriteErrorResponse(w, rej.description, http.StatusUnauthorized)
}

// extractBearerToken returns the token of an "Authorization: Bearer" header
func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("authorization header is missing")
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errMissingBearer
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", errors.New("bearer token is empty")
	}
	return token, nil
}

func sanitizeHeaderValue(s string) string {
	return headerEscaper.Replace(s)
}

// WrapWithPublicPaths applies authMw to every request except those for
// publicPaths, see IsPublicPath
func WrapWithPublicPaths(
	authMw func(http.Handler) http.Handler,
	publicPaths []string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		protected := authMw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicPath(r.URL.Path, publicPaths) {
				next.ServeHTTP(w, r)
				return
			}
			protected.ServeHTTP(w, r)
		})
	}
}
