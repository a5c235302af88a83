package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestDebug_DisabledInProduction(t *testing.T) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	logger.SetLevel(log.DebugLevel)

	appLogger := &AppLogger{
		logger: logger,
		debug:  false, // Production mode
	}

	appLogger.Debug("debug message that should not appear")

	output := buf.String()
	if strings.Contains(output, "debug message that should not appear") {
		t.Errorf("Expected debug message to be suppressed in production mode, got: %s", output)
	}
}

func TestInfoWarnError(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.Info("info message", "key", "value")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	for _, want := range []string{"info message", "warn message", "error message", "key=value"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected log output to contain %q, got: %s", want, output)
		}
	}
}

func TestDebugObject(t *testing.T) {
	logger, buf := NewTestLogger()

	type sample struct {
		Name  string
		Count int
	}
	logger.DebugObject("sample", sample{Name: "test", Count: 3})

	output := buf.String()
	if !strings.Contains(output, "Object dump") {
		t.Errorf("Expected log output to contain 'Object dump', got: %s", output)
	}
	if !strings.Contains(output, "test") {
		t.Errorf("Expected log output to contain object content, got: %s", output)
	}
}

func TestLogPerformance(t *testing.T) {
	logger, buf := NewTestLogger()

	start := time.Now().Add(-10 * time.Millisecond)
	logger.LogPerformance("analysis", start)

	output := buf.String()
	if !strings.Contains(output, "Performance") {
		t.Errorf("Expected log output to contain 'Performance', got: %s", output)
	}
	if !strings.Contains(output, "analysis") {
		t.Errorf("Expected log output to contain operation name, got: %s", output)
	}
}

func TestGetDefaultIsSingleton(t *testing.T) {
	first := GetDefault()
	second := GetDefault()

	if first != second {
		t.Error("GetDefault should return the same instance")
	}
}
