package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	l, err := New("warn", "console")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %s, want warn", l.GetLevel())
	}
	if _, err := New("loud", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
}
