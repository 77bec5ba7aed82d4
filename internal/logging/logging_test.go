package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/ppiankov/newsguard/internal/model"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{" WARN ", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	logger, err := New(model.LoggingConfig{Level: "warn", JSON: true}, false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info enabled at warn level")
	}

	verbose, err := New(model.LoggingConfig{Level: "error"}, true)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !verbose.Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose logger should enable debug")
	}

	if _, err := New(model.LoggingConfig{Level: "nope"}, false); err == nil {
		t.Error("expected error for bad level")
	}
}
