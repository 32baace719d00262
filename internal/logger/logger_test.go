package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseLogLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("nonexistent.yaml")
	if err != nil {
		t.Fatalf("LoadConfig returned error for missing file: %v", err)
	}

	if config.Level != "INFO" {
		t.Errorf("Default level = %q, want %q", config.Level, "INFO")
	}
	if !config.ConsoleEnabled {
		t.Error("Default ConsoleEnabled = false, want true")
	}
	if config.FileEnabled {
		t.Error("Default FileEnabled = true, want false")
	}
	if config.FilePath != "logs/delvegen.log" {
		t.Errorf("Default FilePath = %q, want %q", config.FilePath, "logs/delvegen.log")
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "logging-test-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	yamlContent := `logging:
  level: DEBUG
  console_format: json
  file_enabled: true
  file_path: test.log
  file_max_size_mb: 20
`
	if _, err := tmpFile.Write([]byte(yamlContent)); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	tmpFile.Close()

	config, err := LoadConfig(tmpFile.Name())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if config.Level != "DEBUG" {
		t.Errorf("Level = %q, want %q", config.Level, "DEBUG")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q", config.ConsoleFormat, "json")
	}
	if !config.ConsoleEnabled {
		t.Error("ConsoleEnabled = false, want default true when omitted")
	}
	if !config.FileEnabled {
		t.Error("FileEnabled = false, want true")
	}
	if config.FileMaxSizeMB != 20 {
		t.Errorf("FileMaxSizeMB = %d, want %d", config.FileMaxSizeMB, 20)
	}
	if config.FileMaxBackups != 5 {
		t.Errorf("FileMaxBackups = %d, want default %d", config.FileMaxBackups, 5)
	}
}

func TestLoadConfigRejectsBadFormat(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "logging-test-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	tmpFile.WriteString("logging:\n  console_format: xml\n")
	tmpFile.Close()

	if _, err := LoadConfig(tmpFile.Name()); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("LoadConfig error = %v, want ErrInvalidFormat", err)
	}
}

func TestEnvVarOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LOG_CONSOLE_FORMAT", "json")
	t.Setenv("LOG_FILE_ENABLED", "true")
	t.Setenv("LOG_FILE_PATH", "/custom/path.log")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if config.Level != "ERROR" {
		t.Errorf("Level = %q, want %q (from env var)", config.Level, "ERROR")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q (from env var)", config.ConsoleFormat, "json")
	}
	if !config.FileEnabled {
		t.Error("FileEnabled = false, want true (from env var)")
	}
	if config.FilePath != "/custom/path.log" {
		t.Errorf("FilePath = %q, want %q (from env var)", config.FilePath, "/custom/path.log")
	}
}

func TestInitializeConsole(t *testing.T) {
	var buf bytes.Buffer

	config := DefaultConfig()
	if err := initialize(config, &buf); err != nil {
		t.Fatalf("initialize() error: %v", err)
	}

	Info("chain built", "builders", 7)
	Debug("This should not appear")

	output := buf.String()
	if !strings.Contains(output, "chain built") {
		t.Errorf("Output missing INFO message: %s", output)
	}
	if !strings.Contains(output, "builders=7") {
		t.Errorf("Output missing structured field: %s", output)
	}
	if strings.Contains(output, "This should not appear") {
		t.Errorf("Output contains DEBUG message when level is INFO: %s", output)
	}
}

func TestInitializeJSONAndFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "gen.log")

	config := DefaultConfig()
	config.ConsoleFormat = "json"
	config.FileEnabled = true
	config.FilePath = path
	if err := initialize(config, &buf); err != nil {
		t.Fatalf("initialize() error: %v", err)
	}

	Info("level generated", "depth", 3)

	if !strings.Contains(buf.String(), `"depth":3`) {
		t.Errorf("console output missing JSON field: %s", buf.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "level generated") {
		t.Errorf("log file missing message: %s", data)
	}
}

func TestAlwaysBypassesLogLevel(t *testing.T) {
	var buf bytes.Buffer

	config := DefaultConfig()
	config.Level = "ERROR"
	if err := initialize(config, &buf); err != nil {
		t.Fatalf("initialize() error: %v", err)
	}

	Info("Info message")
	Warning("Warning")
	Error("Error message")
	Always("summary", "fingerprint", "abc")

	output := buf.String()
	if strings.Contains(output, "Info message") || strings.Contains(output, "Warning") {
		t.Error("messages below ERROR appeared")
	}
	if !strings.Contains(output, "Error message") {
		t.Error("ERROR message missing from output")
	}
	if !strings.Contains(output, "level=ALWAYS") {
		t.Errorf("ALWAYS level not formatted correctly: %s", output)
	}
}

func TestLevelHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	Debug("carving", "builder", "maze")
	Info("culled", "cells", 12)
	Warning("unknown glyph", "glyph", "Q")
	Error("no exit")

	output := buf.String()
	for _, want := range []string{
		"level=DEBUG msg=carving builder=maze",
		"level=INFO msg=culled cells=12",
		"level=WARN msg=\"unknown glyph\" glyph=Q",
		"level=ERROR msg=\"no exit\"",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestMultiHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	handler1 := slog.NewTextHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler2 := slog.NewTextHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger = slog.New(newMultiHandler(handler1, handler2))

	Info("info only", "field", "value")
	Warning("both")

	if !strings.Contains(buf1.String(), "info only") || !strings.Contains(buf1.String(), "both") {
		t.Errorf("first handler output = %q", buf1.String())
	}
	if strings.Contains(buf2.String(), "info only") {
		t.Error("second handler received a record below its level")
	}
	if !strings.Contains(buf2.String(), "both") {
		t.Error("second handler missed the warning")
	}
}

func TestNilLogger(t *testing.T) {
	logger = nil

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logging with nil logger caused panic: %v", r)
		}
	}()

	Debug("debug")
	Info("info")
	Warning("warning")
	Error("error")
	Always("always")
}
