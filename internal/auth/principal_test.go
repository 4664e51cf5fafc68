package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/stacklok/toolhive-search/internal/exclusion"
)

func TestPrincipalFromClaims(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   *Principal
	}{
		{
			name:   "list of roles",
			claims: jwt.MapClaims{"sub": "ada", "roles": []any{"support", "billing", 7}},
			want:   &Principal{Subject: "ada", Roles: []string{"support", "billing"}},
		},
		{
			name:   "space separated roles",
			claims: jwt.MapClaims{"sub": "ada", "roles": "support  admin"},
			want:   &Principal{Subject: "ada", Roles: []string{"support", "admin"}, Admin: true},
		},
		{
			name:   "admin claim",
			claims: jwt.MapClaims{"sub": "root", "admin": true},
			want:   &Principal{Subject: "root", Admin: true},
		},
		{
			name:   "no roles",
			claims: jwt.MapClaims{},
			want:   &Principal{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PrincipalFromClaims(tt.claims, "roles", "admin"))
		})
	}
}

func TestPrincipal_ExclusionHooks(t *testing.T) {
	t.Parallel()

	support := &Principal{Subject: "ada", Roles: []string{"support"}}
	assert.True(t, support.IsAuthenticated())
	assert.False(t, support.IsAdmin())
	assert.True(t, support.HasAnyRole("billing", "support"))
	assert.False(t, support.HasAnyRole("billing"))

	registry := exclusion.NewRegistry()
	assert.True(t, registry.ExcludeForNonAdmins(support, "salary", "PayrollResource"))
	assert.Equal(t, map[string][]string{"salary": {"PayrollResource"}}, registry.GetAll())
}

func TestPrincipalFromContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, exclusion.Anonymous{}, PrincipalFromContext(context.Background()))

	p := &Principal{Subject: "ada"}
	assert.Same(t, p, PrincipalFromContext(WithPrincipal(context.Background(), p)))
}
