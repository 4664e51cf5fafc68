package auth

import (
	"context"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stacklok/toolhive-search/internal/exclusion"
)

type principalKey struct{}

// Principal is an authenticated caller built from token claims
type Principal struct {
	Subject string
	Roles   []string
	Admin   bool
}

var _ exclusion.Principal = (*Principal)(nil)

// IsAuthenticated implements exclusion.Principal
func (*Principal) IsAuthenticated() bool {
	return true
}

// IsAdmin implements exclusion.Principal
func (p *Principal) IsAdmin() bool {
	return p.Admin
}

// HasAnyRole implements exclusion.Principal
func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if slices.Contains(p.Roles, role) {
			return true
		}
	}
	return false
}

// PrincipalFromClaims reads the subject and roles from claims. The roles claim
// may be a list or a space separated string. A principal holding adminRole,
// or carrying a true "admin" claim, is an admin.
func PrincipalFromClaims(claims jwt.MapClaims, rolesClaim, adminRole string) *Principal {
	p := &Principal{}
	if sub, err := claims.GetSubject(); err == nil {
		p.Subject = sub
	}

	switch roles := claims[rolesClaim].(type) {
	case string:
		p.Roles = strings.Fields(roles)
	case []any:
		for _, r := range roles {
			if s, ok := r.(string); ok && s != "" {
				p.Roles = append(p.Roles, s)
			}
		}
	case []string:
		p.Roles = append(p.Roles, roles...)
	}

	admin, _ := claims["admin"].(bool)
	p.Admin = admin || slices.Contains(p.Roles, adminRole)
	return p
}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p exclusion.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal of the request, or an anonymous
// principal when the request was not authenticated
func PrincipalFromContext(ctx context.Context) exclusion.Principal {
	if p, ok := ctx.Value(principalKey{}).(exclusion.Principal); ok && p != nil {
		return p
	}
	return exclusion.Anonymous{}
}
