package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"Info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" ERROR ", zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.level))
		})
	}
}

func TestNewLoggerFormats(t *testing.T) {
	for _, format := range []string{"", "json", "text", "TEXT"} {
		t.Run(format, func(t *testing.T) {
			log, err := NewLogger(Config{Level: "info", Format: format, OutputPaths: []string{filepath.Join(t.TempDir(), "out.log")}})
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewLoggerStampsBuildFields(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.log")
	log, err := NewLogger(Config{
		Level:       "warn",
		Service:     "hmpps-accredited-programmes-ui",
		BuildNumber: "2024-01-01.1",
		GitRef:      "abc123",
		OutputPaths: []string{out},
	})
	require.NoError(t, err)

	log.Info("dropped below level")
	log.Warn("kept")
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "hmpps-accredited-programmes-ui", entry["service"])
	assert.Equal(t, "2024-01-01.1", entry["buildNumber"])
	assert.Equal(t, "abc123", entry["gitRef"])
	assert.Contains(t, entry, "timestamp")
}
