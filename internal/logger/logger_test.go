package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chazuruo/spurdeck/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zap.DebugLevel},
		{"INFO", zap.InfoLevel},
		{"warn", zap.WarnLevel},
		{"warning", zap.WarnLevel},
		{"error", zap.ErrorLevel},
		{"", zap.InfoLevel},
		{"chatty", zap.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "spurdeck.log")

	log, err := New(config.LoggingConfig{Level: "warn", Format: "json", File: path})
	require.NoError(t, err)

	log.Info("dropped below level")
	log.Warn("load failed", zap.String("workflow_id", "S1"), zap.Int("page", 2))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "load failed", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "S1", entry["workflow_id"])
	assert.Equal(t, float64(2), entry["page"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_ConsoleToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")

	log, err := New(config.LoggingConfig{Level: "debug", Format: "console", File: path})
	require.NoError(t, err)

	log.Debug("fetching page", zap.Int("page", 1))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG")
	assert.Contains(t, string(data), "fetching page")
	assert.NotContains(t, string(data), "\x1b[", "file output should not be coloured")
}

func TestNopAndOrNop(t *testing.T) {
	assert.NotNil(t, Nop())
	assert.NotNil(t, OrNop(nil))

	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
