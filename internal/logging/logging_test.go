package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("chatty", ""); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_Level(t *testing.T) {
	log, err := New("warn", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info enabled at warn level")
	}
	if !log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error disabled at warn level")
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compras.log")
	log, err := New("info", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("fetched")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line %q is not JSON: %v", line, err)
	}
	if entry["msg"] != "fetched" || entry["app"] != "compras" {
		t.Errorf("entry = %v", entry)
	}
}
