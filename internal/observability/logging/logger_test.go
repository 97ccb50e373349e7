package logging

import (
	"log/slog"
	"testing"
)

func TestLevelFromParsesAliases(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":    slog.LevelDebug,
		" WARN ":   slog.LevelWarn,
		"warning":  slog.LevelWarn,
		"error":    slog.LevelError,
		"":         slog.LevelInfo,
		"verbose":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := levelFrom(in); got != want {
			t.Fatalf("levelFrom(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSONLoggerDefaultsServiceName(t *testing.T) {
	if logger := NewJSONLogger("", "info"); logger == nil {
		t.Fatalf("expected logger")
	}
}
