package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			path := filepath.Join(dir, tt.level+".log")
			cfg := FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}
			l := New(Options{Level: tt.level, File: cfg})

			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")
			l.Error("error message")
			Sync(l)

			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read log file: %v", err)
			}
			out := string(content)
			for _, exp := range tt.expected {
				if !strings.Contains(out, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestFieldsWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.log")
	l := New(Options{Level: "debug", File: DefaultFileConfig(path)})
	l.Info("frame", zap.Int("fps", 60), zap.Duration("elapsed", 16*time.Millisecond))
	Sync(l)

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"frame", `"fps": 60`, `"elapsed": "16ms"`} {
		if !strings.Contains(string(content), want) {
			t.Errorf("log output missing %s: %s", want, content)
		}
	}
}

func TestNoOutputs(t *testing.T) {
	l := New(Options{Level: "debug"})
	if l.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger without outputs should be disabled")
	}
	Sync(l)
	Sync(nil)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/facet.log")
	if cfg.Path != "/tmp/facet.log" {
		t.Errorf("Path = %s, want /tmp/facet.log", cfg.Path)
	}
	if cfg.MaxSizeMB != 10 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 7 {
		t.Errorf("rotation = %d/%d/%d, want 10/3/7", cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("Compress = false, want true")
	}
}
