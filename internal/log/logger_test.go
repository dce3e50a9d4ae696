package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentHTTP, Output: &buf})

	l.Info("hello", "k", "v")
	l.WithComponent(ComponentChart).Debug("drawn")

	out := buf.String()
	assert.Contains(t, out, "component=http")
	assert.Contains(t, out, "k=v")
	assert.Contains(t, out, "component=chart", "WithComponent not applied")
}

func TestFromContextFallback(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.Equal(t, "unknown", l.Component())

	mine := New(Config{Component: ComponentApp, Output: &bytes.Buffer{}})
	assert.Same(t, mine, FromContext(WithLogger(context.Background(), mine)))
}

func TestStructuredLogger_LogLogin(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Component: ComponentAuth, Output: &buf}))

	sl.LogLogin(context.Background(), "jdoe", "10.0.0.1", errors.New("invalid credentials"))
	out := buf.String()
	for _, want := range []string{"level=WARN", "login=jdoe", "success=false", `error="invalid credentials"`} {
		assert.Contains(t, out, want)
	}
}
