package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/logos-engine/internal/config"
)

func TestSetupWriter_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := SetupWriter(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)
	WithRequestID(log, "req-1").Info("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("expected request_id, got %v", entry["request_id"])
	}
	if entry["service"] != "logos-engine" {
		t.Errorf("expected service attribute, got %v", entry["service"])
	}
}

func TestSetupWriter_DevelopmentIsText(t *testing.T) {
	var buf bytes.Buffer
	log := SetupWriter(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)
	log.Info("dropped")
	WithError(WithPlayerID(log, "p-7"), errors.New("boom")).Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info line should be filtered at warn level")
	}
	for _, want := range []string{"msg=kept", "player_id=p-7", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestWithPlayerID_Empty(t *testing.T) {
	base := slog.Default()
	if WithPlayerID(base, "") != base {
		t.Error("expected the same logger for an empty player id")
	}
}
