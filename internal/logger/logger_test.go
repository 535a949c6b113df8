package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, envProduction)

	log.Debug("hidden")
	log.Info("server started", "addr", "0.0.0.0:8000")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON log line: %v", err)
	}
	if entry["msg"] != "server started" || entry["env"] != envProduction {
		t.Fatalf("Unexpected log entry %v", entry)
	}
}

func TestNew_LocalIsText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, envLocal).Debug("probe", "database", "missing")

	out := buf.String()
	if !strings.Contains(out, "msg=probe") || !strings.Contains(out, "database=missing") {
		t.Fatalf("Unexpected text log output %q", out)
	}
}
