package search

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultResultLimit caps results per entity type when nothing else is configured
	DefaultResultLimit = 100

	// EnvPrefix is the prefix of the environment variables read by this package
	EnvPrefix = "THV_SEARCH"
	// resultLimitKey resolves to THV_SEARCH_RESULT_LIMIT
	resultLimitKey = "result_limit"
)

// ResolveLimit returns the per entity type result limit. An explicit positive
// value wins, then THV_SEARCH_RESULT_LIMIT, then DefaultResultLimit.
func ResolveLimit(explicit int) int {
	if explicit > 0 {
		return explicit
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	if err := v.BindEnv(resultLimitKey); err != nil {
		return DefaultResultLimit
	}

	raw := strings.TrimSpace(v.GetString(resultLimitKey))
	if raw == "" {
		return DefaultResultLimit
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		slog.Warn("Ignoring invalid search result limit from environment",
			"env", EnvPrefix+"_"+strings.ToUpper(resultLimitKey),
			"value", raw)
		return DefaultResultLimit
	}
	return limit
}
