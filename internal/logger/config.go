package logger

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrInvalidFormat is returned for an output format other than text or json
var ErrInvalidFormat = errors.New("logger: format must be text or json")

// Config holds logging configuration. Every field can be overridden from
// the environment with the LOG_* variable named in its env tag.
type Config struct {
	Level          string `yaml:"level" env:"LOG_LEVEL"`
	ConsoleEnabled bool   `yaml:"console_enabled" env:"LOG_CONSOLE_ENABLED"`
	ConsoleFormat  string `yaml:"console_format" env:"LOG_CONSOLE_FORMAT"`
	FileEnabled    bool   `yaml:"file_enabled" env:"LOG_FILE_ENABLED"`
	FilePath       string `yaml:"file_path" env:"LOG_FILE_PATH"`
	FileFormat     string `yaml:"file_format" env:"LOG_FILE_FORMAT"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb" env:"LOG_FILE_MAX_SIZE_MB"`
	FileMaxBackups int    `yaml:"file_max_backups" env:"LOG_FILE_MAX_BACKUPS"`
	FileMaxAgeDays int    `yaml:"file_max_age_days" env:"LOG_FILE_MAX_AGE_DAYS"`
}

// LoggingConfig wraps the Config for YAML parsing
type LoggingConfig struct {
	Logging Config `yaml:"logging"`
}

// DefaultConfig returns console-only text logging at INFO
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FileEnabled:    false,
		FilePath:       "logs/delvegen.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// LoadConfig loads the logging section of a YAML file over the defaults and
// applies environment variable overrides. A missing file is not an error.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			wrapper := LoggingConfig{Logging: config}
			if err := yaml.Unmarshal(data, &wrapper); err != nil {
				return config, fmt.Errorf("failed to parse logging config: %w", err)
			}
			config = wrapper.Logging
		case !errors.Is(err, os.ErrNotExist):
			return config, fmt.Errorf("failed to read logging config: %w", err)
		}
	}

	if err := ApplyEnv(&config); err != nil {
		return config, err
	}
	return config, config.Validate()
}

// ApplyEnv overrides fields from LOG_* environment variables
func ApplyEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("failed to parse logging environment: %w", err)
	}
	return nil
}

// Validate checks the output formats
func (c Config) Validate() error {
	for _, format := range []string{c.ConsoleFormat, c.FileFormat} {
		if format != "text" && format != "json" {
			return fmt.Errorf("%w: got %q", ErrInvalidFormat, format)
		}
	}
	return nil
}
