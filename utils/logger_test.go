package utils

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		setting    string
		production bool
		want       zapcore.Level
	}{
		{"", false, zapcore.DebugLevel},
		{"", true, zapcore.InfoLevel},
		{"debug", true, zapcore.DebugLevel},
		{"warn", false, zapcore.WarnLevel},
		{"ERROR", false, zapcore.ErrorLevel},
		{"verbose", false, zapcore.DebugLevel},
		{"verbose", true, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := logLevel(tt.setting, tt.production); got != tt.want {
			t.Errorf("logLevel(%q, %v) = %v, want %v", tt.setting, tt.production, got, tt.want)
		}
	}
}
