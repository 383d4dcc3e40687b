package config

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Encode writes cfg to w as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasks configuration file
# Values can be overridden by TASKS_* environment variables or CLI flags

# Directory for the task list, theme preference and TUI log
# (supports ~ and $VAR expansion; relative paths use the working directory)
data_dir = "~/.tasks"

# Storage backend: file (one JSON file per key), sqlite (tasks.db) or memory
storage = "file"

# Key the task list is stored under; use different keys for separate lists
storage_key = "tasks"

# Theme used until one is toggled and saved: light or dark
theme = "light"

# Logging
log_level = "info"     # debug, info, warn, error
log_format = "text"    # text, json, logfmt
# log_file = "tasks.log"
log_timestamps = false
`
}
