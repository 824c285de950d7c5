package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}

func TestLogger_IncludesStackAndServiceOnError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "test-service")
	log.Error().Stack().Err(errors.New("boom")).Msg("something failed")

	line := lastNonEmptyLine(buf.String())
	if line == "" {
		t.Fatalf("no output captured")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("invalid json log: %v\n%s", err, line)
	}
	if svc, ok := payload["service"].(string); !ok || svc != "test-service" {
		t.Fatalf("expected service=\"test-service\", got %v", payload["service"])
	}
	if lvl, ok := payload["level"].(string); !ok || lvl != "error" {
		t.Fatalf("expected level=\"error\", got %v", payload["level"])
	}
	if _, ok := payload["stack"]; !ok {
		t.Fatalf("expected stack field in error log: %s", line)
	}
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := SetLevel("DEBUG"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("level = %v", zerolog.GlobalLevel())
	}
	if err := SetLevel(""); err != nil || zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("empty level: err=%v level=%v", err, zerolog.GlobalLevel())
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
