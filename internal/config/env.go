package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from TASKS_* environment variables. If
// sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TASKS_DATA_DIR"); v != "" {
		cfg.DataDir = v
		setEnv("data_dir")
	}
	if v := os.Getenv("TASKS_STORAGE"); v != "" {
		cfg.Storage = v
		setEnv("storage")
	}
	if v := os.Getenv("TASKS_KEY"); v != "" {
		cfg.StorageKey = v
		setEnv("storage_key")
	}
	if v := os.Getenv("TASKS_THEME"); v != "" {
		cfg.Theme = v
		setEnv("theme")
	}

	// Logging configuration
	if v := os.Getenv("TASKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TASKS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TASKS_LOG_FILE"); v != "" {
		cfg.LogFile = v
		setEnv("log_file")
	}
	if v := os.Getenv("TASKS_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
