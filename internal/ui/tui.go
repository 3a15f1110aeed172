// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/todobox/internal/store"
	"github.com/nibzard/todobox/internal/todo"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	ratioStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	completedStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	progressStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	footerStyle    = lipgloss.NewStyle().Faint(true)
)

// Run starts the TUI over s.
func Run(ctx context.Context, s *store.Store) error {
	if !IsTTY(os.Stdout) {
		return errors.New("tui requires a TTY")
	}

	program := tea.NewProgram(newModel(s), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type mode int

const (
	modeList mode = iota
	modeInput
)

type model struct {
	store    *store.Store
	todos    []todo.Todo
	cursor   int
	mode     mode
	input    []rune
	err      error
	notice   string
	showHelp bool
}

func newModel(s *store.Store) *model {
	m := &model{store: s}
	if recovered := s.Recovered(); recovered != nil {
		m.notice = "Todo file was malformed; started with an empty list."
	}
	m.refresh()
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.mode == modeInput {
		return m.updateInput(key)
	}

	m.err = nil
	m.notice = ""
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
	case "j", "down":
		m.move(1)
	case "k", "up":
		m.move(-1)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(len(m.todos)-1, 0)
	case "a", "n":
		m.mode = modeInput
		m.input = m.input[:0]
	case " ", "space", "s":
		if t, ok := m.selected(); ok {
			m.setStatus(t, t.Status.Next())
		}
	case "1":
		m.setSelected(todo.StatusPending)
	case "2":
		m.setSelected(todo.StatusInProgress)
	case "3":
		m.setSelected(todo.StatusCompleted)
	case "d", "x", "delete":
		if t, ok := m.selected(); ok {
			m.err = m.store.Delete(t.ID)
			m.refresh()
		}
	}
	return m, nil
}

func (m *model) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.input = m.input[:0]
		m.err = nil
	case tea.KeyEnter:
		created, err := m.store.Create(string(m.input))
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.mode = modeList
		m.input = m.input[:0]
		m.refresh()
		m.cursor = todo.IndexOf(m.todos, created.ID)
	case tea.KeyBackspace:
		if n := len(m.input); n > 0 {
			m.input = m.input[:n-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, key.Runes...)
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.store.Path())
		return b.String()
	}

	b.WriteString(ratioStyle.Render(fmt.Sprintf("Todos completed : %.1f %%", m.store.CompletionRatio())))
	b.WriteString("\n\n")

	if len(m.todos) == 0 {
		b.WriteString("  No todos yet. Press a to add one.\n")
	}
	for i, t := range m.todos {
		b.WriteString(m.formatRow(i, t))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.mode == modeInput {
		b.WriteString("New task: " + string(m.input) + "█\n")
		b.WriteString(footerStyle.Render("enter to add | esc to cancel"))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(m.notice + "\n")
	}
	b.WriteString("\n")
	writeFooter(&b, m.store.Path())
	return b.String()
}

func (m *model) formatRow(i int, t todo.Todo) string {
	marker := "  "
	if i == m.cursor && m.mode == modeList {
		marker = cursorStyle.Render("> ")
	}
	line := fmt.Sprintf("[%s] %-11s %s", statusIcon(t.Status), t.Status.Label(), t.Task)
	switch t.Status {
	case todo.StatusCompleted:
		line = completedStyle.Render(line)
	case todo.StatusInProgress:
		line = progressStyle.Render(line)
	}
	return marker + line
}

// refresh copies the store contents and keeps the cursor in range.
func (m *model) refresh() {
	m.todos = m.store.List()
	if m.cursor >= len(m.todos) {
		m.cursor = len(m.todos) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) move(delta int) {
	if len(m.todos) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.todos)-1)
}

func (m *model) selected() (todo.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.todos) {
		return todo.Todo{}, false
	}
	return m.todos[m.cursor], true
}

func (m *model) setSelected(status todo.Status) {
	if t, ok := m.selected(); ok {
		m.setStatus(t, status)
	}
}

func (m *model) setStatus(t todo.Todo, status todo.Status) {
	m.err = m.store.UpdateStatus(t.ID, status)
	m.refresh()
}

func writeTitle(b *strings.Builder) {
	title := "todobox"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  a, n         Add a todo\n")
	b.WriteString("  space, s     Cycle status\n")
	b.WriteString("  1 / 2 / 3    Set Pending / In progress / Completed\n")
	b.WriteString("  d, x         Delete the selected todo\n")
	b.WriteString("  j, k, ↑, ↓   Move\n")
	b.WriteString("  g, G         First / last todo\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
}

func writeFooter(b *strings.Builder, todoPath string) {
	b.WriteString(footerStyle.Render(fmt.Sprintf("Press h for help | q to quit | %s", todoPath)))
	b.WriteString("\n")
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

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
