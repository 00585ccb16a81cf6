package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		logLevel string
		want     zapcore.Level
	}{
		{"開発環境はdebug", "development", "", zapcore.DebugLevel},
		{"本番環境はinfo", "production", "", zapcore.InfoLevel},
		{"LOG_LEVELで上書き", "production", "warn", zapcore.WarnLevel},
		{"不正なLOG_LEVELは無視", "development", "invalid_level", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.logLevel)

			l := NewLogger(tt.env)

			require.NotNil(t, l)
			assert.Equal(t, tt.want, level.Level())
			l.Info("test message")
		})
	}
}

func TestSetAndGet(t *testing.T) {
	original := Get()
	defer Set(original)

	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))

	Info("予約を作成しました", zap.Int64("booking_id", 1))
	Named("hub").Warn("オブザーバーが失敗しました")
	With(zap.String("k", "v")).Error("失敗")
	Debug("表示されない")

	require.Equal(t, 3, logs.Len())
	entries := logs.All()
	assert.Equal(t, "予約を作成しました", entries[0].Message)
	assert.Equal(t, int64(1), entries[0].ContextMap()["booking_id"])
	assert.Equal(t, "hub", entries[1].LoggerName)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestInit(t *testing.T) {
	original := Get()
	defer Set(original)

	l := Init("production")

	assert.Same(t, l, Get())
}
