package entity

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/stacklok/toolhive-search/internal/search"
)

var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_.-]+)\}`)

// expand replaces every {field} in tmpl with the path escaped record value.
// It returns an empty string when any placeholder has no value, so the
// result is dropped rather than linking to a broken URL.
func expand(tmpl string, r search.Record) string {
	if strings.TrimSpace(tmpl) == "" {
		return ""
	}

	missing := false
	out := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		v := r.Field(name)
		if v == "" {
			missing = true
			return ""
		}
		return url.PathEscape(v)
	})
	if missing {
		return ""
	}
	return out
}
