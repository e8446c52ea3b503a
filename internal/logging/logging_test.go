package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hello", "channel", "raw")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	if record["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", record["msg"])
	}
	if record["level"] != "debug" {
		t.Errorf("level = %v, want debug", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Error("missing ts attribute")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info line leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("dropped")
	if logger.Enabled(nil, 0) { //nolint:staticcheck // nil context fine for noop
		t.Error("noop logger reports enabled")
	}
}

func TestWithNodeNilLogger(t *testing.T) {
	logger := WithNode(nil, "detector")
	logger.Info("no panic")
}
