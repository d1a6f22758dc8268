// Package ui provides the optional terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskmgr/internal/menu"
	"github.com/nibzard/taskmgr/internal/store"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	doneStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	footerStyle = lipgloss.NewStyle().Faint(true)
	inputStyle  = lipgloss.NewStyle().Underline(true)
	noticeStyle = lipgloss.NewStyle().Italic(true)
)

// RunTUI starts the task menu TUI. Every change goes through d.
func RunTUI(ctx context.Context, d *menu.Dispatcher, tasksPath string) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(newModel(d, tasksPath), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type mode int

const (
	modeBrowse mode = iota
	modeInput
)

type model struct {
	dispatcher *menu.Dispatcher
	tasksPath  string
	entries    []store.Entry
	cursor     int
	mode       mode
	input      []rune
	status     string
	statusKind menu.Kind
	showHelp   bool
}

func newModel(d *menu.Dispatcher, tasksPath string) *model {
	return &model{
		dispatcher: d,
		tasksPath:  tasksPath,
	}
}

func (m *model) Init() tea.Cmd {
	m.refresh()
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
		m.updateInput(key)
		return m, nil
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "a":
		m.mode = modeInput
		m.input = m.input[:0]
	case "x", "enter":
		if e, ok := m.selected(); ok {
			m.apply(menu.Command{Action: menu.ActionComplete, Arg: fmt.Sprint(e.ID)})
		}
	case "d", "delete":
		if e, ok := m.selected(); ok {
			m.apply(menu.Command{Action: menu.ActionRemove, Arg: fmt.Sprint(e.ID)})
		}
	case "r", "f5":
		m.refresh()
	case "?", "h":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *model) updateInput(key tea.KeyMsg) {
	switch key.Type {
	case tea.KeyEnter:
		m.mode = modeBrowse
		m.apply(menu.Command{Action: menu.ActionAdd, Arg: string(m.input)})
		if m.statusKind == menu.KindOK {
			m.cursor = len(m.entries) - 1
		}
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input = m.input[:0]
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, key.Runes...)
	}
}

// apply dispatches cmd, records its message, and reloads the list.
func (m *model) apply(cmd menu.Command) {
	result := m.dispatcher.Dispatch(cmd)
	m.status = result.Message()
	m.statusKind = result.Kind
	m.refresh()
}

func (m *model) refresh() {
	result := m.dispatcher.Dispatch(menu.Command{Action: menu.ActionView})
	m.entries = result.Entries
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) selected() (store.Entry, bool) {
	if len(m.entries) == 0 {
		return store.Entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m *model) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tasksPath)
		return b.String()
	}

	m.writeTasks(&b)
	if m.mode == modeInput {
		b.WriteString("New task: " + inputStyle.Render(string(m.input)+" ") + "\n")
		b.WriteString(footerStyle.Render("enter to save | esc to cancel") + "\n\n")
	}
	m.writeStatus(&b)
	writeFooter(&b, m.tasksPath)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := menu.Title
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func (m *model) writeTasks(b *strings.Builder) {
	if len(m.entries) == 0 {
		b.WriteString(noticeStyle.Render("No tasks available.") + "\n\n")
		return
	}
	for i, e := range m.entries {
		line := formatEntry(e)
		if e.Status == store.StatusCompleted {
			line = doneStyle.Render(line)
		}
		if i == m.cursor && m.mode == modeBrowse {
			b.WriteString(cursorStyle.Render(">") + " " + line + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

func (m *model) writeStatus(b *strings.Builder) {
	if m.status == "" {
		return
	}
	style := statusStyle
	if m.statusKind == menu.KindError || m.statusKind == menu.KindNotFound {
		style = errorStyle
	}
	b.WriteString(style.Render(m.status) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  up/k, down/j Move selection\n")
	b.WriteString("  a            Add a new task\n")
	b.WriteString("  x, enter     Mark selected task as complete\n")
	b.WriteString("  d, delete    Remove selected task\n")
	b.WriteString("  r, F5        Reload tasks file\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, tasksPath string) {
	b.WriteString(footerStyle.Render(fmt.Sprintf("Press ? for help | q to quit | %s", tasksPath)) + "\n")
}

func formatEntry(e store.Entry) string {
	statusIcon := " "
	if e.Status == store.StatusCompleted {
		statusIcon = "x"
	}
	return fmt.Sprintf("[%s] %d. %s", statusIcon, e.ID, e.Description)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
