// Package exclusion decides which entity types are left out of a global
// search, based on the text of the query.
//
// Rules map a pattern to the entity types it excludes. Patterns use a small
// sigil grammar, checked in this order:
//
//   - "^certificate": prefix. Matches "c", "ce", "cer" and so on, while the
//     query is a prefix of the word. An empty query never matches.
//   - "user$": exact. Matches only "user".
//   - "inv*ce": wildcard. '*' is any sequence, the rest is literal and the
//     whole query must match.
//   - "report": substring in both directions. Matches "rep" as well as
//     "annual report 2024".
//
// Queries and patterns are lowercased and trimmed before matching. A pattern
// such as "^cert*" is a prefix pattern whose '*' is literal.
//
// # Usage Example
//
//	registry := exclusion.NewRegistry()
//	registry.AddRules(map[string][]string{
//		"^cert": {"CertificateResource"},
//		"user$": {"UserResource"},
//	})
//
//	resolver, err := exclusion.NewResolver(registry, exclusion.WithCache(256))
//	if err != nil {
//		return err
//	}
//	resolver.IsExcluded("ce", "CertificateResource") // true
//	resolver.ExcludedEntityTypesFor("user")           // [UserResource]
//
// The registry is populated at startup. Rules that depend on the searching
// user are layered onto a Clone of the registry for each request, see
// Registry.ApplyRoleRules.
package exclusion
