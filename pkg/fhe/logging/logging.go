package logging

import (
	"context"
	"log/slog"
)

const placeholder = "[redacted]"

// Logger is the subset of slog used by the fhe packages. Applications can
// supply their own implementation to route or filter records.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New adapts l. A nil l takes the slog.Default() in effect when New is
// called; later slog.SetDefault calls do not reach it.
func New(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return sl{l}
}

// Discard returns a Logger that drops every record.
func Discard() Logger { return sl{slog.New(slog.DiscardHandler)} }

type sl struct{ l *slog.Logger }

func (s sl) Debug(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelDebug, msg, args...)
}

func (s sl) Info(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelInfo, msg, args...)
}

func (s sl) Warn(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelWarn, msg, args...)
}

func (s sl) Error(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelError, msg, args...)
}

func (s sl) With(args ...any) Logger { return sl{s.l.With(args...)} }

// Redacted stands in for an attribute whose value must never be logged, such
// as private key material.
func Redacted(key string) slog.Attr { return slog.String(key, placeholder) }

// Placeholder is the value Redacted attributes carry.
func Placeholder() string { return placeholder }
