package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/guildtag/internal/core"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestFromContext_AddsRequestAndSession(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "info", "json")

	var ctx context.Context
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	ctx = core.ContextWithSessionID(ctx, "sess-1")
	ctx = core.ContextWithIPAddress(ctx, "192.0.2.7")

	FromContext(ctx).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "sess-1", entry["session_id"])
	assert.Equal(t, "192.0.2.7", entry["client_ip"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestWithFields(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "debug", "json")

	ctx := core.ContextWithSessionID(context.Background(), "sess-2")
	WithFields(ctx, "tag", "Az9").Debug("tag updated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Az9", entry["tag"])
	assert.Equal(t, "sess-2", entry["session_id"])
}

func TestNewHandler_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, "debug", "text")).Debug("visible", "k", "v")

	assert.True(t, strings.Contains(buf.String(), "msg=visible"))
	assert.True(t, strings.Contains(buf.String(), "k=v"))
}
