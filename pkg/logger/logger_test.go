package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"roadmap_backend/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name, mode string
		want       zapcore.Level
	}{
		{"debug", "release", zap.DebugLevel},
		{"WARN", "debug", zap.WarnLevel},
		{"error", "debug", zap.ErrorLevel},
		{"", "debug", zap.DebugLevel},
		{"", "release", zap.InfoLevel},
		{"nonsense", "debug", zap.InfoLevel},
	}
	for _, c := range cases {
		if got := ParseLevel(c.name, c.mode); got != c.want {
			t.Fatalf("ParseLevel(%q, %q) = %v, want %v", c.name, c.mode, got, c.want)
		}
	}
}

func TestInitLoggerWritesJSONFile(t *testing.T) {
	orig := Log
	defer func() { Log = orig }()

	file := filepath.Join(t.TempDir(), "app.log")
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{Level: "warn", File: file, MaxSize: 1},
	}
	InitLogger(cfg)

	Log.Info("info-msg")
	Log.Warn("warn-msg", zap.String("topic", "go"))
	_ = Log.Sync()

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(b)
	if strings.Contains(out, "info-msg") {
		t.Fatalf("info should be suppressed at warn level: %q", out)
	}
	if !strings.Contains(out, `"msg":"warn-msg"`) || !strings.Contains(out, `"topic":"go"`) {
		t.Fatalf("warn entry missing from JSON log: %q", out)
	}
}
