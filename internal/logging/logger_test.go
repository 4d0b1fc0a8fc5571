package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsComponent(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	WithComponent(logger, "task-service").Info("task updated", String("task_id", "abc"))

	line := buf.String()
	if !strings.Contains(line, "task-service: task updated") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, "task_id=abc") {
		t.Fatalf("expected attribute rendering, got %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected info suppressed at warn level, got %q", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "WARN kept") {
		t.Fatalf("expected warn output, got %q", buf.String())
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should not be enabled at any level")
	}
}

func TestFormatValueQuoting(t *testing.T) {
	if got := formatValue(slog.StringValue("plain")); got != "plain" {
		t.Fatalf("expected bare value, got %q", got)
	}
	if got := formatValue(slog.StringValue("two words")); got != `"two words"` {
		t.Fatalf("expected quoted value, got %q", got)
	}
}
