package config

import (
	"flag"
)

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"todo":             "todo_file",
	"reset-on-corrupt": "reset_on_corrupt",
	"log-dir":          "log_dir",
	"log-level":        "log_level",
	"log-format":       "log_format",
	"log-timestamps":   "log_timestamps",
	"log-caller":       "log_caller",
	"log-to-file":      "log_to_file",
}

// parseFlags defines the global flags on fs, parses args, and records
// explicitly set flags in sources.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todobox", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.TodoFile, "todo", cfg.TodoFile, "Path to todo file")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.BoolVar(&cfg.ResetOnCorrupt, "reset-on-corrupt", cfg.ResetOnCorrupt, "Start with an empty list if the todo file is malformed")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.BoolVar(&cfg.LogToFile, "log-to-file", cfg.LogToFile, "Write logs to the project log file instead of stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if key, ok := flagKeys[f.Name]; ok {
				sources[key] = SourceFlag
			}
		})
	}
	return nil
}
