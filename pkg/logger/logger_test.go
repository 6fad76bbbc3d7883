package logger

import (
	"testing"

	"go.opentelemetry.io/otel/log/noop"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		wantErr bool
	}{
		{"production json", "production", "info", false},
		{"development console", "development", "debug", false},
		{"default level", "development", "", false},
		{"bad level", "production", "loud", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.env, tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && log == nil {
				t.Fatal("expected a logger")
			}
		})
	}
}

func TestNewRespectsLevel(t *testing.T) {
	log, err := New("production", "warn")
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled at warn level")
	}
}

func TestWithOTelTeesEntries(t *testing.T) {
	base, err := New("production", "info")
	if err != nil {
		t.Fatal(err)
	}
	if WithOTel(base, "bill-desk", nil) != base {
		t.Error("nil provider should return the same logger")
	}

	teed := WithOTel(base, "bill-desk", noop.NewLoggerProvider())
	if teed == base {
		t.Fatal("expected a wrapped logger")
	}
	if !teed.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should stay enabled")
	}
	teed.Info("bridged entry")
}
