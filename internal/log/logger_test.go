package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Component: ComponentStore, Handler: slog.NewTextHandler(&buf, nil)})

	logger.Info("hello", FieldEntity, "category")
	out := buf.String()
	if !strings.Contains(out, "component=store") || !strings.Contains(out, "entity=category") {
		t.Fatalf("unexpected output %q", out)
	}

	buf.Reset()
	logger.WithComponent(ComponentScheduler).Warn("tick")
	if !strings.Contains(buf.String(), "component=scheduler") {
		t.Fatalf("component not switched: %q", buf.String())
	}
}

func TestStructuredLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Handler: slog.NewTextHandler(&buf, nil)}))
	r := httptest.NewRequest(http.MethodGet, "/api/summary?month=2025-05", nil)

	sl.LogHTTPEnd(context.Background(), r, http.StatusNotFound, 3, "127.0.0.1")
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Fatalf("4xx should log at warn: %q", buf.String())
	}

	buf.Reset()
	sl.LogError(context.Background(), "boom", errors.New("disk full"), ComponentStorage, OpPersist, nil)
	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "disk full") {
		t.Fatalf("unexpected error output %q", out)
	}
}

func TestFromContextFallback(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected default logger")
	}
	logger := Discard()
	var seen *Logger
	h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen != logger {
		t.Fatal("middleware did not install logger")
	}
}
