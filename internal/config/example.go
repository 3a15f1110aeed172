package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todobox configuration file
# Values can be overridden by environment variables (TODOBOX_*) or CLI flags

# Todo file (relative to the working directory)
todo_file = "todos.json"

# Start with an empty list when the todo file is malformed.
# The file is rewritten on the next change.
reset_on_corrupt = false

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.todobox"

# Logging: level (debug, info, warn, error), format (text, json, logfmt)
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false

# Write logs to <log_dir>/<project>/todobox.log instead of stderr
log_to_file = false
`
}
