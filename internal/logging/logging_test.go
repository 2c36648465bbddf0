package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "weather.log")

	logger, err := NewFile(path, false)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	logger.Debugw("hidden", "key", "value")
	logger.Warnw("retrying request", "retry", 1)
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "retrying request") {
		t.Errorf("log file missing warn entry: %s", content)
	}
	if strings.Contains(content, "hidden") {
		t.Error("debug entries should be filtered at info level")
	}
}

func TestNewFile_Debug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.log")

	logger, err := NewFile(path, true)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	logger.Debugw("sending request", "request_id", "abc")
	logger.Sync()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "sending request") {
		t.Error("debug logger should record debug entries")
	}
}

func TestNop(t *testing.T) {
	// Must not panic
	Nop().Errorw("ignored", "key", "value")
}
