// Package cmd implements the CLI command structure for todobox.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todobox/internal/config"
	"github.com/nibzard/todobox/internal/logging"
	"github.com/nibzard/todobox/internal/store"
	"github.com/nibzard/todobox/internal/todo"
	"github.com/nibzard/todobox/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	sources map[string]config.ConfigSource
	out     io.Writer
	errOut  io.Writer
	logger  *log.Logger
}

// Run executes the todobox CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todobox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	logger, closeLog, err := newLogger(cws.Config, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	a := &app{
		cfg:     cws.Config,
		sources: cws.Sources,
		out:     stdout,
		errOut:  stderr,
		logger:  logger,
	}

	// Determine the subcommand; "list" when none is given
	subcommand := "list"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "add", "new":
		return a.addCommand(remainingArgs)
	case "list", "ls":
		return a.listCommand(remainingArgs)
	case "set", "status":
		return a.setCommand(remainingArgs)
	case "rm", "remove", "delete":
		return a.rmCommand(remainingArgs)
	case "stats":
		return a.statsCommand(remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "schema":
		_, err := stdout.Write(todo.Schema())
		return err
	case "config":
		return a.configCommand(remainingArgs)
	case "logs":
		return a.logsCommand(remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newLogger builds the logger from config. The returned func closes the log
// file when logging to one.
func newLogger(cfg *config.Config, stderr io.Writer) (*log.Logger, func(), error) {
	opts := logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	if !cfg.LogToFile {
		return logging.New(stderr, opts), func() {}, nil
	}
	w, err := logging.OpenFile(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logging.New(w, opts), func() { w.Close() }, nil
}

func (a *app) openStore() (*store.Store, error) {
	s, err := store.Open(
		todo.NewFile(a.cfg.TodoFile),
		store.WithLogger(a.logger),
		store.WithResetOnCorrupt(a.cfg.ResetOnCorrupt),
	)
	if err != nil {
		if errors.Is(err, todo.ErrCorrupt) {
			return nil, fmt.Errorf("%w\n(run with --reset-on-corrupt to start with an empty list)", err)
		}
		return nil, err
	}
	return s, nil
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("todobox "+name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// addCommand creates a todo from the remaining arguments.
func (a *app) addCommand(args []string) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}

	created, err := s.Create(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s %q\n", shortID(created.ID), created.Task)
	return nil
}

// listCommand prints the completion ratio and every todo in order.
func (a *app) listCommand(args []string) error {
	fs := a.newFlagSet("list")
	asJSON := fs.Bool("json", false, "Print the todos as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(s.List())
	}

	printRatio(a.out, s.CompletionRatio())
	todos := s.List()
	if len(todos) == 0 {
		fmt.Fprintln(a.out, "No todos yet. Add one with: todobox add <task>")
		return nil
	}
	for i, t := range todos {
		fmt.Fprintln(a.out, formatTodo(i, t))
	}
	return nil
}

// setCommand changes the status of a todo.
func (a *app) setCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: todobox set <id> <status>  (status: %s)", strings.Join(todo.Labels(), ", "))
	}
	status, err := todo.ParseStatus(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	t, err := s.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := s.UpdateStatus(t.ID, status); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %q is now %s\n", shortID(t.ID), t.Task, status.Label())
	return nil
}

// rmCommand deletes todos by id.
func (a *app) rmCommand(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: todobox rm <id>...")
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	for _, ref := range args {
		t, err := s.Resolve(ref)
		if err != nil {
			return err
		}
		if err := s.Delete(t.ID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Removed %s %q\n", shortID(t.ID), t.Task)
	}
	return nil
}

// statsCommand prints the completion ratio and per-status counts.
func (a *app) statsCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}

	printRatio(a.out, s.CompletionRatio())
	counts := s.Counts()
	for _, status := range todo.Statuses {
		fmt.Fprintf(a.out, "  %-12s %d\n", status.Label()+":", counts[status])
	}
	fmt.Fprintf(a.out, "  %-12s %d\n", "Total:", s.Len())
	return nil
}

// doctorCommand checks the todo file and configuration.
func (a *app) doctorCommand(args []string) error {
	fs := a.newFlagSet("doctor")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := a.out
	fmt.Fprintln(w, "todobox doctor")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)

	allOK := true

	file := todo.NewFile(a.cfg.TodoFile)
	fmt.Fprintf(w, "Todo file: %s\n", file.Path())
	info, err := os.Stat(file.Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on the first change)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		todos, loadErr := file.Load()
		var decErr *todo.DecodeError
		switch {
		case errors.As(loadErr, &decErr):
			fmt.Fprintln(w, "  ❌ Invalid:")
			for _, p := range decErr.Problems {
				fmt.Fprintf(w, "     - %v\n", p)
			}
			allOK = false
		case loadErr != nil:
			fmt.Fprintf(w, "  ❌ Load error: %v\n", loadErr)
			allOK = false
		default:
			fmt.Fprintf(w, "  ✅ Valid (%d todos, %.1f %% completed)\n", len(todos), todo.CompletionRatio(todos))
			if *verbose {
				for i, t := range todos {
					fmt.Fprintln(w, "  "+formatTodo(i, t))
				}
			}
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config:")
	if len(a.cfg.Files) == 0 {
		fmt.Fprintln(w, "  ✅ No config file (using defaults)")
	}
	for _, f := range a.cfg.Files {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	if a.cfg.LogToFile {
		if path, err := logging.FindLogFile(a.cfg.LogDir, a.cfg.ProjectRoot); err == nil {
			fmt.Fprintf(w, "  Log file: %s\n", path)
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed.")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return errors.New("doctor checks failed")
}

// configCommand prints the effective configuration and where each value came from.
func (a *app) configCommand(args []string) error {
	fs := a.newFlagSet("config")
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		_, err := io.WriteString(a.out, config.ExampleConfig())
		return err
	}

	for _, key := range config.Fields() {
		fmt.Fprintf(a.out, "%-17s = %-30q # %s\n", key, a.cfg.Value(key), a.sources[key])
	}
	return nil
}

// logsCommand prints the end of the project log file.
func (a *app) logsCommand(args []string) error {
	fs := a.newFlagSet("logs")
	n := fs.Int("n", 20, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := logging.FindLogFile(a.cfg.LogDir, a.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log file: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(a.out, "No log file found. Enable it with --log-to-file or log_to_file = true.")
		return nil
	}
	return logging.TailLog(a.out, path, *n)
}

// tuiCommand launches the terminal UI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	return ui.Run(ctx, s)
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todobox version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todobox - a small todo list kept in a JSON file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todobox [options] [command] [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <task...>        Add a todo")
	fmt.Fprintln(w, "  list, ls [--json]    List todos (default command)")
	fmt.Fprintln(w, "  set <id> <status>    Change status (Pending, In progress, Completed)")
	fmt.Fprintln(w, "  rm <id>...           Remove todos")
	fmt.Fprintln(w, "  stats                Show completion ratio and counts")
	fmt.Fprintln(w, "  tui                  Launch terminal UI")
	fmt.Fprintln(w, "  doctor [-v]          Check the todo file and config")
	fmt.Fprintln(w, "  schema               Print the todo file JSON Schema")
	fmt.Fprintln(w, "  config [--example]   Show effective config")
	fmt.Fprintln(w, "  logs [-n N]          Show the end of the log file")
	fmt.Fprintln(w, "  version              Show version information")
	fmt.Fprintln(w, "  help                 Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ids may be shortened to any unique prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func printRatio(w io.Writer, ratio float64) {
	fmt.Fprintf(w, "Todos completed : %.1f %%\n\n", ratio)
}

// formatTodo renders one todo line for list output.
func formatTodo(i int, t todo.Todo) string {
	return fmt.Sprintf("%3d. [%s] %-11s %s  %s", i+1, statusIcon(t.Status), t.Status.Label(), shortID(t.ID), t.Task)
}

func statusIcon(s todo.Status) string {
	switch s {
	case todo.StatusInProgress:
		return ">"
	case todo.StatusCompleted:
		return "x"
	default:
		return " "
	}
}

// shortID returns the first 8 characters of id.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
