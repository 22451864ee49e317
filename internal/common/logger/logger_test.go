package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tca-workers/internal/common/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "whatif-lock"})

	log.Info("processing job", map[string]interface{}{"jobKey": int64(7)})
	log.WithError(assert.AnError).Error("failed", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "whatif-lock", entries[0].ContextMap()["taskType"])
	assert.Equal(t, int64(7), entries[0].ContextMap()["jobKey"])
	assert.Equal(t, assert.AnError.Error(), entries[1].ContextMap()["error"])
}

func TestFromConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workers.log")
	log := FromConfig(config.LoggingConfig{Level: "warn", Format: "json", Output: path})

	log.Info("dropped", nil)
	log.Warn("kept", map[string]interface{}{"sessionKey": "analysisResult"})
	if w, ok := log.(*zapWrapper); ok {
		_ = w.l.Sync()
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.Contains(t, string(data), `"sessionKey":"analysisResult"`)
}
