package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWritesThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.With("component", "test").Info(context.Background(), "context created", "ring_dim", 8192, Redacted("sk"))

	out := buf.String()
	for _, want := range []string{"context created", "component=test", "ring_dim=8192", "sk=" + Placeholder()} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q missing %q", out, want)
		}
	}
}

func TestDiscard(t *testing.T) {
	l := Discard().With("k", "v")
	l.Error(context.Background(), "dropped")
}

func TestNewNilUsesDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var first, second bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&first, nil)))
	l := New(nil)
	slog.SetDefault(slog.New(slog.NewTextHandler(&second, nil)))

	l.Info(context.Background(), "bound early")
	if !strings.Contains(first.String(), "bound early") {
		t.Fatalf("record missing from the default at New time: %q", first.String())
	}
	if second.Len() != 0 {
		t.Fatalf("record reached a later default: %q", second.String())
	}
}
