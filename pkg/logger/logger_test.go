package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestLevelFiltering(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	l := NewLogger("warn", true)
	l.SetOutput(&buf)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("messages below warn leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") {
		t.Errorf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] error 4") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestDebugEnabled(t *testing.T) {
	if !NewLogger("debug", false).DebugEnabled() {
		t.Error("debug logger reports debug disabled")
	}
	if NewLogger("info", true).DebugEnabled() || Discard().DebugEnabled() {
		t.Error("non-debug logger reports debug enabled")
	}
}

func TestProgressRespectsVerbose(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewLogger("info", false)
	quiet.SetOutput(&buf)

	quiet.Progress("🔍", "hidden")
	quiet.ProgressAlways("✅", "shown %s", "always")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("Progress printed without verbose mode")
	}
	if !strings.Contains(buf.String(), "✅ shown always") {
		t.Errorf("ProgressAlways missing: %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
