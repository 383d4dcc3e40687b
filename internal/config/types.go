package config

import (
	"errors"
	"fmt"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/storage"
	"github.com/nibzard/tasks-go/internal/theme"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataDir    = "~/.tasks"
	DefaultStorage    = string(storage.KindFile)
	DefaultStorageKey = "tasks"
	DefaultTheme      = string(theme.Default)
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for tasks.
type Config struct {
	// Storage
	DataDir    string `toml:"data_dir"`
	Storage    string `toml:"storage"`     // file, sqlite, memory
	StorageKey string `toml:"storage_key"` // key the task list is stored under

	// Presentation
	Theme string `toml:"theme"` // used when no theme has been saved yet

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogFile       string `toml:"log_file"` // relative to data_dir unless absolute
	LogTimestamps bool   `toml:"log_timestamps"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// StorageKind returns the parsed storage backend.
func (c *Config) StorageKind() storage.Kind {
	kind, err := storage.ParseKind(c.Storage)
	if err != nil {
		return storage.KindFile
	}
	return kind
}

// FallbackTheme returns the parsed theme used when none is saved.
func (c *Config) FallbackTheme() theme.Theme {
	t, err := theme.Parse(c.Theme)
	if err != nil {
		return theme.Default
	}
	return t
}

// LogPath returns the TUI log file path.
func (c *Config) LogPath() string {
	return logging.ResolvePath(c.DataDir, c.LogFile)
}

// LogOptions returns logger options for the configured level and format.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		Timestamps: c.LogTimestamps,
	}
}

// FlagError is returned by Load when the command line cannot be parsed.
type FlagError struct {
	Err error
}

func (e *FlagError) Error() string {
	return "parsing flags: " + e.Err.Error()
}

func (e *FlagError) Unwrap() error {
	return e.Err
}

// ValidationError describes a config field with an unusable value.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks enumerated fields. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	check := func(field, value string, err error) {
		if err != nil {
			errs = append(errs, &ValidationError{Field: field, Value: value, Err: err})
		}
	}

	if c.DataDir == "" && c.StorageKind() != storage.KindMemory {
		check("data_dir", c.DataDir, errors.New("must not be empty"))
	}
	_, err := storage.ParseKind(c.Storage)
	check("storage", c.Storage, err)
	check("storage_key", c.StorageKey, storage.ValidateKey(c.StorageKey))
	if c.StorageKey == theme.StorageKey {
		check("storage_key", c.StorageKey, errors.New("reserved for the theme preference"))
	}
	_, err = theme.Parse(c.Theme)
	check("theme", c.Theme, err)
	_, err = logging.ParseLevel(c.LogLevel)
	check("log_level", c.LogLevel, err)
	_, err = logging.ParseFormatter(c.LogFormat)
	check("log_format", c.LogFormat, err)

	return errors.Join(errs...)
}
