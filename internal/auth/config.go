package auth

import (
	"path"
	"strings"
)

// IsPublicPath reports whether requestPath is served without authentication.
// A public path covers itself and everything below it, segment by segment:
// /health covers /health/live but not /healthz. Encoded separators and dots
// are never public, and traversals are resolved before matching.
func IsPublicPath(requestPath string, publicPaths []string) bool {
	lower := strings.ToLower(requestPath)
	if strings.Contains(lower, "%2f") || strings.Contains(lower, "%2e") {
		return false
	}

	reqPath := cleanAbs(requestPath)
	for _, p := range publicPaths {
		public := cleanAbs(p)
		switch {
		case public == "/":
			return true
		case reqPath == public, strings.HasPrefix(reqPath, public+"/"):
			return true
		}
	}
	return false
}

// cleanAbs cleans p and roots it at /
func cleanAbs(p string) string {
	return path.Clean("/" + p)
}
