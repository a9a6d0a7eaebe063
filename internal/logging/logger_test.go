package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Info("recording started", "recording_id", "rec_1")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "clipforge.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]any
	line := strings.TrimSpace(string(data))
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log entry is not valid JSON: %v", err)
	}
	if entry["msg"] != "recording started" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["recording_id"] != "rec_1" {
		t.Errorf("recording_id = %v", entry["recording_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelWarn)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	_ = logger.Close()

	data, _ := os.ReadFile(filepath.Join(dir, "clipforge.log"))
	content := string(data)

	if strings.Contains(content, "info message") {
		t.Error("INFO message should be filtered at WARN level")
	}
	if !strings.Contains(content, "warn message") {
		t.Error("WARN message should be logged at WARN level")
	}
}

func TestChildLoggerInheritsAttributes(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelDebug)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	child := logger.WithRecording("rec_42").WithComponent("encoder")
	child.Info("frame written")
	_ = logger.Close()

	data, _ := os.ReadFile(filepath.Join(dir, "clipforge.log"))
	content := string(data)

	if !strings.Contains(content, `"recording_id":"rec_42"`) {
		t.Errorf("child entry missing recording_id: %s", content)
	}
	if !strings.Contains(content, `"component":"encoder"`) {
		t.Errorf("child entry missing component: %s", content)
	}
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	logger := NopLogger()
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d")
	if err := logger.Close(); err != nil {
		t.Errorf("Close on NopLogger should be a no-op, got %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warn", LevelWarn},
		{"ERROR", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
