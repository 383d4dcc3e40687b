package config

import (
	"flag"
)

// parseFlags registers the global flags on fs and parses args. Only
// flags that were explicitly set override cfg. If sources is non-nil,
// it tracks the source of each value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasks", flag.ContinueOnError)
	}

	type binding struct {
		field string
		apply func()
	}
	bindings := make(map[string]binding)

	str := func(name, field string, target *string, usage string) {
		v := fs.String(name, *target, usage)
		bindings[name] = binding{field: field, apply: func() { *target = *v }}
	}
	boolean := func(name, field string, target *bool, usage string) {
		v := fs.Bool(name, *target, usage)
		bindings[name] = binding{field: field, apply: func() { *target = *v }}
	}

	// Storage
	str("data-dir", "data_dir", &cfg.DataDir, "Directory holding tasks and logs")
	str("storage", "storage", &cfg.Storage, "Storage backend (file, sqlite, memory)")
	str("key", "storage_key", &cfg.StorageKey, "Storage key for the task list")

	// Presentation
	str("theme", "theme", &cfg.Theme, "Theme used when none is saved (light, dark)")

	// Logging
	str("log-level", "log_level", &cfg.LogLevel, "Log level (debug, info, warn, error)")
	str("log-format", "log_format", &cfg.LogFormat, "Log format (text, json, logfmt)")
	str("log-file", "log_file", &cfg.LogFile, "TUI log file (relative to data dir)")
	boolean("log-timestamps", "log_timestamps", &cfg.LogTimestamps, "Show timestamps in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		b, ok := bindings[f.Name]
		if !ok {
			return
		}
		b.apply()
		if sources != nil {
			sources[b.field] = SourceFlag
		}
	})
	return nil
}
