package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Level
	}{
		{input: "debug", expected: log.DebugLevel},
		{input: "warn", expected: log.WarnLevel},
		{input: "error", expected: log.ErrorLevel},
		{input: "info", expected: log.InfoLevel},
		{input: "", expected: log.InfoLevel},
		{input: "verbose", expected: log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewLoggerWithWriter(t *testing.T) {
	t.Setenv("DIS8080_LOG_LEVEL", "warn")
	t.Setenv("DIS8080_LOG_PREFIX", "")

	var buf bytes.Buffer
	lg := NewLoggerWithWriter(&buf)
	defer lg.Close()

	lg.Info("hidden")
	lg.Warn("shown", "addr", "0000")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level:\n%s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "dis8080") {
		t.Errorf("missing warn message or prefix:\n%s", out)
	}
}

func TestIsDebug(t *testing.T) {
	t.Setenv("DIS8080_LOG_LEVEL", "debug")
	if !IsDebug() {
		t.Error("IsDebug() = false")
	}
	t.Setenv("DIS8080_LOG_LEVEL", "info")
	if IsDebug() {
		t.Error("IsDebug() = true")
	}
}
