// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.todobox/todobox.toml or OS-specific config directory)
// 3. Project config file (todobox.toml or .todobox.toml in the working directory)
// 4. Environment variables (TODOBOX_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.todobox/todobox.toml (preferred)
// - Windows: %APPDATA%\todobox\todobox.toml
// - macOS: ~/Library/Application Support/todobox/todobox.toml
// - Linux/BSD: $XDG_CONFIG_HOME/todobox/todobox.toml or ~/.config/todobox/todobox.toml
//
// Project-level config locations (overrides user config):
// - ./todobox.toml (preferred)
// - ./.todobox.toml
package config
