package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf)
	log.Debug("hello", "node", "patient_care")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["node"] != "patient_care" {
		t.Errorf("got node %v, want patient_care", rec["node"])
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", "text", &buf)
	log.Info("quiet")
	log.Warn("loud")
	if strings.Contains(buf.String(), "quiet") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(buf.String(), "loud") {
		t.Error("warn message missing")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): got %v, want %v", in, got, want)
		}
	}
}

func TestFromContext(t *testing.T) {
	log := Discard()
	ctx := WithLogger(context.Background(), log)
	if FromContext(ctx) != log {
		t.Error("FromContext did not return the embedded logger")
	}
	if FromContext(context.Background()) != slog.Default() {
		t.Error("FromContext without logger should return slog.Default")
	}
}
