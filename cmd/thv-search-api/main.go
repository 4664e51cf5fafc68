// Package main is the entry point for the ToolHive global search API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/toolhive-search/cmd/thv-search-api/app"
	"github.com/stacklok/toolhive-search/internal/config"
)

// getLogLevel reads THV_SEARCH_LOG_LEVEL, then LOG_LEVEL. Unset or invalid
// values mean info.
func getLogLevel() slog.Level {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()

	value := v.GetString("LOG_LEVEL")
	if value == "" {
		value = os.Getenv("LOG_LEVEL")
	}
	if value == "" {
		return slog.LevelInfo
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		slog.Warn("Invalid log level, using INFO", "value", value)
		return slog.LevelInfo
	}
	return level
}

// traceHandler adds the OpenTelemetry trace_id and span_id of the record
// context to every log record
type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

func main() {
	// Logs go to stderr so that stdout stays clean for command output
	// such as version --format json
	base := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: getLogLevel()})
	slog.SetDefault(slog.New(&traceHandler{Handler: base}))

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
