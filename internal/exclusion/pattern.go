package exclusion

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
)

// Kind identifies how a pattern is matched against a query
type Kind int

const (
	// KindSubstring matches when either side contains the other
	KindSubstring Kind = iota
	// KindPrefix matches queries the cleaned pattern starts with ("^cert")
	KindPrefix
	// KindExact matches only the cleaned pattern itself ("user$")
	KindExact
	// KindWildcard matches an anchored glob where '*' is any sequence ("cert*ate")
	KindWildcard
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindPrefix:
		return "prefix"
	case KindExact:
		return "exact"
	case KindWildcard:
		return "wildcard"
	default:
		return "substring"
	}
}

const (
	prefixSigil   = "^"
	exactSigil    = "$"
	wildcardSigil = "*"
)

// Pattern is a parsed exclusion pattern. Parsing happens once, at registration.
type Pattern struct {
	// Raw is the pattern exactly as it was registered
	Raw string
	// Kind is the match strategy selected from the sigils in Raw
	Kind Kind
	// Value is the normalized pattern with its sigils removed
	Value string

	glob glob.Glob
	// literals is the number of non-'*' runes a wildcard query must contain
	literals int
}

// normalize lowercases and trims a query or pattern
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParsePattern classifies a raw pattern. The sigils are checked in priority order:
// leading '^' (prefix), trailing '$' (exact), any '*' (wildcard), otherwise substring.
// A pattern like "^cert*" is therefore a prefix pattern with a literal '*'.
func ParsePattern(raw string) Pattern {
	p := normalize(raw)

	switch {
	case strings.HasPrefix(p, prefixSigil):
		return Pattern{Raw: raw, Kind: KindPrefix, Value: strings.TrimLeft(p, prefixSigil)}
	case strings.HasSuffix(p, exactSigil):
		return Pattern{Raw: raw, Kind: KindExact, Value: strings.TrimRight(p, exactSigil)}
	case strings.Contains(p, wildcardSigil):
		return Pattern{
			Raw:      raw,
			Kind:     KindWildcard,
			Value:    p,
			glob:     compileWildcard(p),
			literals: utf8.RuneCountInString(p) - strings.Count(p, wildcardSigil),
		}
	default:
		return Pattern{Raw: raw, Kind: KindSubstring, Value: p}
	}
}

// compileWildcard turns a '*' pattern into an anchored glob. Every other glob
// metacharacter is quoted so it only ever matches itself. No separators are
// passed, so '*' spans any character.
func compileWildcard(p string) glob.Glob {
	segments := strings.Split(p, wildcardSigil)
	for i, segment := range segments {
		segments[i] = glob.QuoteMeta(segment)
	}
	// Quoted segments joined by '*' always form a valid glob
	return glob.MustCompile(strings.Join(segments, wildcardSigil))
}

// Match reports whether the query matches the pattern
func (p Pattern) Match(query string) bool {
	q := normalize(query)

	switch p.Kind {
	case KindPrefix:
		return q != "" && strings.HasPrefix(p.Value, q)
	case KindExact:
		return q == p.Value
	case KindWildcard:
		// The glob prefix/suffix matcher lets overlapping literals share runes
		if utf8.RuneCountInString(q) < p.literals {
			return false
		}
		return p.glob.Match(q)
	default:
		return strings.Contains(q, p.Value) || strings.Contains(p.Value, q)
	}
}

// String describes the pattern for logs and reasons
func (p Pattern) String() string {
	return fmt.Sprintf("%s pattern '%s'", p.Kind, p.Raw)
}

// Matches reports whether the query matches the raw pattern
func Matches(query, pattern string) bool {
	return ParsePattern(pattern).Match(query)
}
