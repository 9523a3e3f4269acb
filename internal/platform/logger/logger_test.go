// Package logger_test contains tests for the logger package
package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/notes-api/internal/config"
	"github.com/phrazzld/notes-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		name        string
		level       string
		debugLogged bool
		infoLogged  bool
	}{
		{name: "debug level", level: "debug", debugLogged: true, infoLogged: true},
		{name: "info level", level: "info", debugLogged: false, infoLogged: true},
		{name: "upper case", level: "ERROR", debugLogged: false, infoLogged: false},
		{name: "invalid falls back to info", level: "verbose", debugLogged: false, infoLogged: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &logger.TestLogBuffer{}
			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tc.level}, buf)
			require.NoError(t, err)
			require.NotNil(t, l)

			l.Debug("debug message")
			slog.Info("info message")

			assert.Equal(t, tc.debugLogged, contains(buf, "debug message"))
			assert.Equal(t, tc.infoLogged, contains(buf, "info message"),
				"default logger should be replaced by Setup")
		})
	}
}

func TestSetupWritesJSON(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, buf)
	require.NoError(t, err)

	l.Info("structured", "component", "test")

	logger.AssertLogField(t, buf, "msg", "structured")
	logger.AssertLogField(t, buf, "component", "test")
}

func TestContextLogger(t *testing.T) {
	l, buf := logger.GetTestLogger(t)

	ctx := logger.WithLogger(context.Background(), l)
	assert.Same(t, l, logger.FromContext(ctx))

	ctx = logger.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", logger.RequestID(ctx))

	logger.FromContext(ctx).Info("with request id")
	logger.AssertLogField(t, buf, "request_id", "req-42")
}

func TestFromContextOrDefault(t *testing.T) {
	fallback, _ := logger.GetTestLogger(t)

	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Same(t, fallback, logger.FromContextOrDefault(nil, fallback))
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	assert.Empty(t, logger.RequestID(context.Background()))
}

func contains(buf *logger.TestLogBuffer, s string) bool {
	entries, err := buf.GetLogEntries()
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e["msg"] == s {
			return true
		}
	}
	return false
}
