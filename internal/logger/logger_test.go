package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   zerolog.Level
	}{
		{"default info", Config{}, zerolog.InfoLevel},
		{"explicit warn", Config{Level: "warn"}, zerolog.WarnLevel},
		{"debug flag wins", Config{Level: "error", Debug: true}, zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, Init(tt.config))
			l := WithComponent("test")
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}

func TestInitRejectsBadConfig(t *testing.T) {
	require.NoError(t, Init(Config{Level: "warn"}))

	assert.Error(t, Init(Config{Level: "chatty"}))
	assert.Error(t, Init(Config{Output: "syslog"}))

	l := WithComponent("test")
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel(), "failed Init keeps the previous logger")
}

func TestDefaultConfigFallbacks(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_OUTPUT", "")
	t.Setenv("DEBUG", "no")

	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.Debug)
}

func TestDefaultConfigReadsEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_OUTPUT", "stdout")
	t.Setenv("DEBUG", "yes")

	cfg := DefaultConfig()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "stdout", cfg.Output)
	assert.True(t, cfg.Debug)
}

func TestNewTestLoggerIsDisabled(t *testing.T) {
	l := NewTestLogger()
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}
