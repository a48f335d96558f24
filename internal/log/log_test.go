package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewJSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentWorker, Output: &buf})
	l.Info("hello", FieldBusinessID, "b1")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if rec[FieldComponent] != ComponentWorker || rec[FieldBusinessID] != "b1" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Output: &buf})
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered, got %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf}).WithComponent(ComponentHTTP)
	ctx := NewContext(context.Background(), l)
	if got := FromContext(ctx); got.Component() != ComponentHTTP {
		t.Fatalf("expected http component, got %s", got.Component())
	}
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got %s", got.Component())
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().WithBusiness("b1").WithOperation("create").WithError(errors.New("boom"), ErrorTypeInternal)
	s := f.ToSlice()
	if len(s) != 8 {
		t.Fatalf("expected 4 pairs, got %v", s)
	}
	joined := ""
	for _, v := range s {
		if str, ok := v.(string); ok {
			joined += str + " "
		}
	}
	if !strings.Contains(joined, "boom") || !strings.Contains(joined, ErrorTypeInternal) {
		t.Fatalf("missing error fields in %v", s)
	}
	if len(NewFields().WithBusiness("").WithError(nil, "x")) != 0 {
		t.Fatal("empty values should be skipped")
	}
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: "json", Component: ComponentApp, Output: &buf}).
		With(FieldRequestID, "r1").
		WithComponent(ComponentHTTP)
	l.Info("x")
	if strings.Count(buf.String(), `"component"`) != 1 {
		t.Fatalf("component should appear once: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"component":"http"`) || !strings.Contains(buf.String(), `"request_id":"r1"`) {
		t.Fatalf("unexpected record: %s", buf.String())
	}
}
