package exclusion

// Principal is the user a search runs on behalf of
type Principal interface {
	IsAuthenticated() bool
	IsAdmin() bool
	HasAnyRole(roles ...string) bool
}

// ExcludeForNonAdmins excludes entity types for queries matching word when
// the principal is authenticated but not an admin. Returns true if a rule was added.
func (r *Registry) ExcludeForNonAdmins(p Principal, word string, entityTypes ...string) bool {
	if p == nil || !p.IsAuthenticated() || p.IsAdmin() {
		return false
	}
	r.AddRule(word, entityTypes...)
	return true
}

// ExcludeForRoles excludes entity types for queries matching word when the
// principal is authenticated and holds any of roles. Returns true if a rule was added.
func (r *Registry) ExcludeForRoles(p Principal, word string, entityTypes, roles []string) bool {
	if p == nil || !p.IsAuthenticated() || !p.HasAnyRole(roles...) {
		return false
	}
	r.AddRule(word, entityTypes...)
	return true
}

// RoleRule registers a pattern depending on who is searching
type RoleRule struct {
	Pattern     string
	EntityTypes []string
	// NonAdmins applies the rule to authenticated principals that are not admins
	NonAdmins bool
	// Roles applies the rule to authenticated principals holding any of these roles
	Roles []string
}

// ApplyRoleRules registers every rule that applies to the principal and
// returns how many were added
func (r *Registry) ApplyRoleRules(p Principal, rules []RoleRule) int {
	added := 0
	for _, rule := range rules {
		if rule.NonAdmins && r.ExcludeForNonAdmins(p, rule.Pattern, rule.EntityTypes...) {
			added++
			continue
		}
		if len(rule.Roles) > 0 && r.ExcludeForRoles(p, rule.Pattern, rule.EntityTypes, rule.Roles) {
			added++
		}
	}
	return added
}

// Anonymous is an unauthenticated principal
type Anonymous struct{}

// IsAuthenticated always returns false
func (Anonymous) IsAuthenticated() bool { return false }

// IsAdmin always returns false
func (Anonymous) IsAdmin() bool { return false }

// HasAnyRole always returns false
func (Anonymous) HasAnyRole(...string) bool { return false }
