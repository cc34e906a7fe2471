package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestCompactHandlerTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewCompactHandler(&buf, &slog.HandlerOptions{Level: LevelTrace})
	l := slog.New(h)

	l.Log(context.Background(), LevelTrace, "sampling node")
	if got := buf.String(); !strings.HasPrefix(got, "[TRACE] ") {
		t.Errorf("trace line = %q, want [TRACE] prefix", got)
	}
}

func TestCompactHandlerEmitsHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewCompactHandler(&buf, nil)
	l := slog.New(h).With("strategy", "forward")

	l.Info("run completed", "nodes", 3)
	got := buf.String()
	if !strings.Contains(got, "strategy=forward") {
		t.Errorf("line %q missing handler attr strategy=forward", got)
	}
	if !strings.Contains(got, "nodes=3") {
		t.Errorf("line %q missing record attr nodes=3", got)
	}
}

func TestCompactHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	h := NewCompactHandler(&buf, nil)
	l := slog.New(h)

	l.Info("loaded", "file", "my graph.json")
	if got := buf.String(); !strings.Contains(got, `file="my graph.json"`) {
		t.Errorf("line %q: value with a space should be quoted", got)
	}
}
