// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

// Package logging provides structured logging with OpenTelemetry trace context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel/trace"
)

// redactedValue replaces the value of secret-bearing attributes.
const redactedValue = "[REDACTED]"

// secretKeys are attribute keys whose values never reach the log output.
// Matching ignores case and underscores.
var secretKeys = map[string]bool{
	"password":        true,
	"confirmpassword": true,
	"token":           true,
	"authtoken":       true,
	"otp":             true,
	"authorization":   true,
	"cookie":          true,
	"setcookie":       true,
}

// redactSecrets is a slog ReplaceAttr hook that masks secretKeys.
func redactSecrets(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(a.Key))
	if secretKeys[key] {
		return slog.String(a.Key, redactedValue)
	}
	return a
}

// traceHandler wraps a slog.Handler to add service identity and trace context.
type traceHandler struct {
	handler slog.Handler
	service string
	version string
}

// Handle adds trace context to the log record.
func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(
		slog.String("service", h.service),
		slog.String("version", h.version),
	)

	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		r.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
	}

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.handler.Handle(ctx, r)
}

// Enabled returns true if the level is enabled.
func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs returns a new handler with the given attributes.
func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{
		handler: h.handler.WithAttrs(attrs),
		service: h.service,
		version: h.version,
	}
}

// WithGroup returns a new handler with the given group.
func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{
		handler: h.handler.WithGroup(name),
		service: h.service,
		version: h.version,
	}
}

// ParseLevel maps debug, info, warn (or warning) and error to a slog level.
// Matching ignores case; empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, oops.Code("LOGGING_INVALID_LEVEL").With("level", level).Errorf("unknown log level %q", level)
	}
}

// Setup creates a configured slog.Logger.
// format: "json" or "text" (defaults to "json" if empty).
// An unknown level falls back to info. If w is nil, writes to os.Stderr.
// Passwords, tokens, codes and cookies logged as attributes are redacted.
func Setup(service, version, format, level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl, _ := ParseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl, ReplaceAttr: redactSecrets}

	var baseHandler slog.Handler
	if format == "text" {
		baseHandler = slog.NewTextHandler(w, opts)
	} else {
		baseHandler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(&traceHandler{
		handler: baseHandler,
		service: service,
		version: version,
	})
}

// SetDefault sets up the default logger and returns it.
func SetDefault(service, version, format, level string, w io.Writer) *slog.Logger {
	logger := Setup(service, version, format, level, w)
	slog.SetDefault(logger)
	return logger
}
