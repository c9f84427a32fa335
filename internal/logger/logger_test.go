package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warning", slog.LevelWarn},
		{" warn ", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"verbose", slog.LevelError},
		{"", slog.LevelError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in, slog.LevelError), "input %q", tt.in)
	}
}

func TestDefaultConfig_Env(t *testing.T) {
	t.Setenv("SKINAMP_LOG_LEVEL", "debug")
	assert.Equal(t, slog.LevelDebug, DefaultConfig().Level)

	t.Setenv("SKINAMP_LOG_LEVEL", "")
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelInfo, cfg.Level)
	assert.Equal(t, "text", cfg.Format)
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: slog.LevelInfo, Format: "json", Output: &buf})

	log.Info("skin applied", slog.String("key", "abc"))
	log.Debug("hidden")

	assert.Contains(t, buf.String(), `"msg":"skin applied"`)
	assert.Contains(t, buf.String(), `"key":"abc"`)
	assert.NotContains(t, buf.String(), "hidden")
}
