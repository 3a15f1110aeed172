package config

import (
	"os"
	"strings"
)

// envKeys maps environment variables to config keys.
var envKeys = map[string]string{
	"TODOBOX_TODO":             "todo_file",
	"TODOBOX_RESET_ON_CORRUPT": "reset_on_corrupt",
	"TODOBOX_LOG_DIR":          "log_dir",
	"TODOBOX_LOG_LEVEL":        "log_level",
	"TODOBOX_LOG_FORMAT":       "log_format",
	"TODOBOX_LOG_TIMESTAMPS":   "log_timestamps",
	"TODOBOX_LOG_CALLER":       "log_caller",
	"TODOBOX_LOG_TO_FILE":      "log_to_file",
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	for env, key := range envKeys {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		setKey(cfg, key, v)
		if sources != nil {
			sources[key] = SourceEnv
		}
	}
}

// setKey assigns the string value v to the field for key.
func setKey(cfg *Config, key, v string) {
	switch key {
	case "todo_file":
		cfg.TodoFile = v
	case "reset_on_corrupt":
		cfg.ResetOnCorrupt = boolFromString(v)
	case "log_dir":
		cfg.LogDir = v
	case "log_level":
		cfg.LogLevel = v
	case "log_format":
		cfg.LogFormat = v
	case "log_timestamps":
		cfg.LogTimestamps = boolFromString(v)
	case "log_caller":
		cfg.LogCaller = boolFromString(v)
	case "log_to_file":
		cfg.LogToFile = boolFromString(v)
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
