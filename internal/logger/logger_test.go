package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLogLevel_zapLevel(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  zapcore.Level
	}{
		{DebugLevel, zapcore.DebugLevel},
		{InfoLevel, zapcore.InfoLevel},
		{WarnLevel, zapcore.WarnLevel},
		{ErrorLevel, zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.zapLevel(); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	if globalLogger != nil {
		t.Skip("logger already initialised")
	}
	Debug("debug", String("k", "v"))
	Info("info", Int("n", 1))
	Warn("warn", Bool("b", true))
	Error("error", ErrorField(nil))
	Sync()
}
