package config

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
}

// Default values.
const (
	DefaultTodoFile  = "todos.json"
	DefaultLogDir    = "~/.todobox"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for todobox.
type Config struct {
	// Paths
	TodoFile string `toml:"todo_file"`
	LogDir   string `toml:"log_dir"`

	// Start with an empty list when the todo file is malformed
	ResetOnCorrupt bool `toml:"reset_on_corrupt"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogToFile     bool   `toml:"log_to_file"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`

	// Config files that were read, lowest priority first (computed)
	Files []string `toml:"-"`
}

// configFields returns the configurable keys in display order.
func configFields() []string {
	return []string{
		"todo_file",
		"reset_on_corrupt",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_to_file",
	}
}

// Fields returns the configurable keys in display order.
func Fields() []string {
	return configFields()
}

// Value returns the string form of a configuration key.
func (c *Config) Value(key string) string {
	switch key {
	case "todo_file":
		return c.TodoFile
	case "reset_on_corrupt":
		return formatBool(c.ResetOnCorrupt)
	case "log_dir":
		return c.LogDir
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return formatBool(c.LogTimestamps)
	case "log_caller":
		return formatBool(c.LogCaller)
	case "log_to_file":
		return formatBool(c.LogToFile)
	}
	return ""
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
