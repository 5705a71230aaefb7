package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		result := test.level.String()
		if result != test.expected {
			t.Errorf("LogLevel(%d).String() = %s, expected %s", test.level, result, test.expected)
		}
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(999), slog.LevelInfo}, // Default for unknown
	}

	for _, test := range tests {
		result := test.level.SlogLevel()
		if result != test.expected {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, expected %v", test.level, result, test.expected)
		}
	}
}

func TestInitForCLI_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelWarn, &buf)

	Debug("Test", "debug message")
	Info("Test", "info message")
	Warn("Test", "warn message")
	Error("Test", errors.New("boom"), "error message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Errorf("debug message should have been filtered, got: %s", out)
	}
	if strings.Contains(out, "info message") {
		t.Errorf("info message should have been filtered, got: %s", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("warn message missing from output: %s", out)
	}
	if !strings.Contains(out, "error message") {
		t.Errorf("error message missing from output: %s", out)
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("error attribute missing from output: %s", out)
	}
}

func TestLogging_SubsystemAttribute(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Info("MLflow", "created run %s", "abc123")

	out := buf.String()
	if !strings.Contains(out, "subsystem=MLflow") {
		t.Errorf("subsystem attribute missing from output: %s", out)
	}
	if !strings.Contains(out, "created run abc123") {
		t.Errorf("formatted message missing from output: %s", out)
	}
}

func TestFallback_WritesThroughWarn(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelWarn, &buf)

	w := Fallback("Spinner")
	n, err := w.Write([]byte("library noise"))
	if err != nil {
		t.Fatalf("Fallback writer returned error: %v", err)
	}
	if n != len("library noise") {
		t.Errorf("Fallback writer returned n=%d, expected %d", n, len("library noise"))
	}
	if !strings.Contains(buf.String(), "library noise") {
		t.Errorf("fallback output missing: %s", buf.String())
	}
}
