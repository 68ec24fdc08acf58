package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")
	log.Info().Msg("hidden")
	log.Warn().Int("matches", 3).Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "matches=3") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "loud")
	log.Debug().Msg("debug")
	log.Info().Msg("info")
	if strings.Contains(buf.String(), "debug") {
		t.Error("debug should be filtered at the fallback level")
	}
	if !strings.Contains(buf.String(), "info") {
		t.Error("info should be logged")
	}
}
