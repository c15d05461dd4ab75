package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

type LogConfig struct {
	Level  zerolog.Level
	Format string
}

func LoadLogConfigFromEnv() (LogConfig, error) {
	cfg := LogConfig{Format: strings.ToLower(getenv("LOG_FORMAT", LogFormatJSON))}

	lvl, err := zerolog.ParseLevel(strings.ToLower(getenv("LOG_LEVEL", "info")))
	if err != nil {
		return LogConfig{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.Level = lvl

	if err := oneOf("LOG_FORMAT", cfg.Format, LogFormatJSON, LogFormatConsole); err != nil {
		return LogConfig{}, err
	}
	return cfg, nil
}
