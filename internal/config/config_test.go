// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME, XDG_CONFIG_HOME and the working directory at empty
// temp dirs and clears TODOBOX_* variables.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for env := range envKeys {
		t.Setenv(env, "")
	}
	t.Chdir(work)
	return home, work
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("todobox", flag.ContinueOnError)
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.TodoFile != DefaultTodoFile {
		t.Errorf("TodoFile: got %q, want %q", cfg.TodoFile, DefaultTodoFile)
	}
	if cfg.LogDir != DefaultLogDir {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, DefaultLogDir)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging defaults: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.ResetOnCorrupt || cfg.LogToFile {
		t.Error("boolean options should default to false")
	}
}

func TestLoadDefaults(t *testing.T) {
	home, work := isolate(t)

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg := cws.Config

	if cfg.TodoFile != filepath.Join(work, DefaultTodoFile) {
		t.Errorf("TodoFile: got %q, want it under %q", cfg.TodoFile, work)
	}
	if cfg.LogDir != filepath.Join(home, ".todobox") {
		t.Errorf("LogDir: got %q, want ~ expanded", cfg.LogDir)
	}
	for _, field := range Fields() {
		if cws.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, cws.Sources[field])
		}
	}
	if cws.ActiveFile() != "" {
		t.Errorf("ActiveFile: got %q, want none", cws.ActiveFile())
	}
}

func TestLoadPriority(t *testing.T) {
	home, work := isolate(t)

	writeFile(t, filepath.Join(home, ".todobox", "todobox.toml"), `
todo_file = "user.json"
log_level = "debug"
log_format = "json"
`)
	writeFile(t, filepath.Join(work, "todobox.toml"), `
todo_file = "project.json"
log_caller = true
`)
	t.Setenv("TODOBOX_LOG_FORMAT", "logfmt")
	t.Setenv("TODOBOX_RESET_ON_CORRUPT", "yes")

	cws, err := LoadWithSources(newFlagSet(), []string{"--log-level", "error"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg := cws.Config

	tests := []struct {
		key    string
		value  string
		source ConfigSource
	}{
		{"todo_file", filepath.Join(work, "project.json"), SourceProjFile},
		{"log_level", "error", SourceFlag},
		{"log_format", "logfmt", SourceEnv},
		{"log_caller", "true", SourceProjFile},
		{"reset_on_corrupt", "true", SourceEnv},
		{"log_to_file", "false", SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := cfg.Value(tt.key); got != tt.value {
				t.Errorf("value: got %q, want %q", got, tt.value)
			}
			if got := cws.Sources[tt.key]; got != tt.source {
				t.Errorf("source: got %q, want %q", got, tt.source)
			}
		})
	}

	if len(cfg.Files) != 2 {
		t.Errorf("Files: got %v, want user and project", cfg.Files)
	}
	if cws.ActiveFile() != "todobox.toml" {
		t.Errorf("ActiveFile: got %q", cws.ActiveFile())
	}
}

func TestLoadXDGUserConfig(t *testing.T) {
	home, _ := isolate(t)
	if osUserConfigDir() != filepath.Join(home, ".config") {
		t.Skip("XDG config dir not used on this platform")
	}
	writeFile(t, filepath.Join(home, ".config", "todobox", "todobox.toml"), `log_level = "warn"`)

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cws.Config.LogLevel != "warn" || cws.Sources["log_level"] != SourceUserFile {
		t.Errorf("got %q from %q", cws.Config.LogLevel, cws.Sources["log_level"])
	}
}

func TestLoadHiddenProjectConfig(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, ".todobox.toml"), `log_to_file = true`)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.LogToFile {
		t.Error("expected log_to_file from .todobox.toml")
	}
}

func TestLoadInvalidConfigFile(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, "todobox.toml"), `todo_file = `)

	_, err := Load(newFlagSet(), nil)
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
	if !strings.Contains(err.Error(), "project config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, "todobox.toml"), `
todo_file = "a.json"
max_iterations = 3
`)

	_, err := Load(newFlagSet(), nil)
	if err == nil || !strings.Contains(err.Error(), "max_iterations") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadFlags(t *testing.T) {
	_, work := isolate(t)
	fs := newFlagSet()

	cfg, err := Load(fs, []string{
		"--todo", "list.json",
		"--reset-on-corrupt",
		"--log-to-file",
		"--log-timestamps",
		"add", "milk",
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TodoFile != filepath.Join(work, "list.json") {
		t.Errorf("TodoFile: got %q", cfg.TodoFile)
	}
	if !cfg.ResetOnCorrupt || !cfg.LogToFile || !cfg.LogTimestamps {
		t.Errorf("boolean flags not applied: %+v", cfg)
	}
	if got := fs.Args(); len(got) != 2 || got[0] != "add" {
		t.Errorf("remaining args: got %v", got)
	}
}

func TestLoadAbsoluteTodoFile(t *testing.T) {
	isolate(t)
	abs := filepath.Join(t.TempDir(), "elsewhere.json")

	cfg, err := Load(newFlagSet(), []string{"--todo", abs})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TodoFile != abs {
		t.Errorf("TodoFile: got %q, want %q", cfg.TodoFile, abs)
	}
}

func TestLoadEmptyTodoFile(t *testing.T) {
	isolate(t)
	if _, err := Load(newFlagSet(), []string{"--todo", ""}); err == nil {
		t.Fatal("expected error for empty todo file")
	}
}

func TestLoadBadFlag(t *testing.T) {
	isolate(t)
	fs := newFlagSet()
	fs.SetOutput(&strings.Builder{})
	if _, err := Load(fs, []string{"--no-such-flag"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestBoolFromString(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", " yes ", "on"} {
		if !boolFromString(s) {
			t.Errorf("boolFromString(%q) = false", s)
		}
	}
	for _, s := range []string{"0", "false", "no", "off", "maybe"} {
		if boolFromString(s) {
			t.Errorf("boolFromString(%q) = true", s)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("TODOBOX_TEST_DIR", "/data")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", home},
		{"~/logs", filepath.Join(home, "logs")},
		{"$TODOBOX_TEST_DIR/todos.json", "/data/todos.json"},
		{"plain", "plain"},
		{"~user/x", "~user/x"},
		{"$TODOBOX_TEST_UNSET/x", "/x"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, "todobox.toml"), ExampleConfig())

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if cws.Sources["todo_file"] != SourceProjFile {
		t.Errorf("todo_file source: got %q", cws.Sources["todo_file"])
	}
}

func TestExpandPercentVars(t *testing.T) {
	t.Setenv("TODOBOX_TEST_DIR", `C:\data`)

	tests := []struct {
		input string
		want  string
	}{
		{`%TODOBOX_TEST_DIR%\todos.json`, `C:\data\todos.json`},
		{`%TODOBOX_TEST_UNSET%\todos.json`, `%TODOBOX_TEST_UNSET%\todos.json`},
		{`100% done`, `100% done`},
		{`no refs`, `no refs`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPercentVars(tt.input); got != tt.want {
				t.Errorf("expandPercentVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
