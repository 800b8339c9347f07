package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "guidex.log")

	logger, err := New(Options{File: path, Level: "debug"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("goal_created", zap.String("goal_id", "abc12345"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"msg":"goal_created"`) {
		t.Fatalf("expected event name in %q", line)
	}
	if !strings.Contains(line, `"ts":`) {
		t.Fatalf("expected ts key in %q", line)
	}
}

func TestNewWithoutFileIsNop(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected nop logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{in: "", want: zapcore.InfoLevel},
		{in: "DEBUG", want: zapcore.DebugLevel},
		{in: "warn", want: zapcore.WarnLevel},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse %q: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTeeWritesConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	logger := Tee(nil, &buf, zapcore.InfoLevel)
	logger.Info("server_listening", zap.String("addr", "127.0.0.1:8080"))
	logger.Debug("hidden")
	_ = logger.Sync()

	out := buf.String()
	if !strings.Contains(out, "server_listening") || !strings.Contains(out, "127.0.0.1:8080") {
		t.Fatalf("expected console line, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug line to be filtered, got %q", out)
	}
}
