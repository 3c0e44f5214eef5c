// Package observability carries build-scoped logging context (build version,
// stage, area) through context.Context so nested code logs it without
// threading loggers around.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/chloroplast/internal/logfields"
)

// LogContext holds the structured logging context of a build.
type LogContext struct {
	BuildVersion string
	Stage        string
	Area         string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBuildVersion adds the build version to the context.
func WithBuildVersion(ctx context.Context, version string) context.Context {
	lc := extractLogContext(ctx)
	lc.BuildVersion = version
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithArea adds the content area being processed to the context.
func WithArea(ctx context.Context, area string) context.Context {
	lc := extractLogContext(ctx)
	lc.Area = area
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// GetContext returns the structured log context stored in ctx.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	var attrs []slog.Attr
	if lc.BuildVersion != "" {
		attrs = append(attrs, logfields.BuildVersion(lc.BuildVersion))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Area != "" {
		attrs = append(attrs, logfields.Area(lc.Area))
	}
	return attrs
}

func logContext(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	all := append(getLogAttrs(ctx), attrs...)
	slog.LogAttrs(ctx, level, msg, all...)
}

// InfoContext logs at info level with the context's attributes.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelInfo, msg, attrs)
}

// WarnContext logs at warn level with the context's attributes.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs at error level with the context's attributes.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelError, msg, attrs)
}

// DebugContext logs at debug level with the context's attributes.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelDebug, msg, attrs)
}
