package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskmgr/internal/menu"
	"github.com/nibzard/taskmgr/internal/store"
)

func newTestModel(t *testing.T, tasks ...store.Task) (*model, *store.Store) {
	t.Helper()
	s := store.New(filepath.Join(t.TempDir(), "tasks.json"))
	if len(tasks) > 0 {
		if err := s.Save(tasks); err != nil {
			t.Fatal(err)
		}
	}
	m := newModel(menu.NewDispatcher(s, nil), s.Path())
	m.Init()
	return m, s
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func typeText(m *model, text string) {
	for _, r := range text {
		press(m, string(r))
	}
}

func TestInitLoadsTasks(t *testing.T) {
	m, _ := newTestModel(t, store.Task{ID: 1, Description: "a"}, store.Task{ID: 2, Description: "b", Completed: true})

	if len(m.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(m.entries))
	}
	view := m.View()
	for _, s := range []string{menu.Title, "[ ] 1. a", "[x] 2. b"} {
		if !strings.Contains(view, s) {
			t.Errorf("view missing %q:\n%s", s, view)
		}
	}
}

func TestEmptyView(t *testing.T) {
	m, _ := newTestModel(t)
	if !strings.Contains(m.View(), "No tasks available.") {
		t.Errorf("view:\n%s", m.View())
	}
	// Actions on an empty list are no-ops.
	press(m, "x", "d", "down", "up")
	if m.status != "" || m.cursor != 0 {
		t.Errorf("status %q cursor %d", m.status, m.cursor)
	}
}

func TestCursorMovement(t *testing.T) {
	m, _ := newTestModel(t,
		store.Task{ID: 1, Description: "a"},
		store.Task{ID: 2, Description: "b"},
		store.Task{ID: 3, Description: "c"},
	)

	tests := []struct {
		key  string
		want int
	}{
		{"down", 1},
		{"j", 2},
		{"j", 2},
		{"up", 1},
		{"k", 0},
		{"k", 0},
	}
	for _, tt := range tests {
		press(m, tt.key)
		if m.cursor != tt.want {
			t.Fatalf("after %q cursor = %d, want %d", tt.key, m.cursor, tt.want)
		}
	}
}

func TestAddTask(t *testing.T) {
	m, s := newTestModel(t, store.Task{ID: 1, Description: "a"})

	press(m, "a")
	if m.mode != modeInput {
		t.Fatal("expected input mode after 'a'")
	}
	typeText(m, "buy milkk")
	press(m, "backspace")
	if !strings.Contains(m.View(), "New task: ") {
		t.Errorf("view missing input line:\n%s", m.View())
	}
	press(m, "enter")

	if m.mode != modeBrowse {
		t.Error("expected browse mode after enter")
	}
	if m.status != "Task added: buy milk" {
		t.Errorf("status = %q", m.status)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want new task selected", m.cursor)
	}
	tasks := s.Load()
	if len(tasks) != 2 || tasks[1].ID != 2 || tasks[1].Description != "buy milk" {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestAddTaskInputKeysDoNotTriggerActions(t *testing.T) {
	m, s := newTestModel(t, store.Task{ID: 1, Description: "a"})

	press(m, "a")
	typeText(m, "dqx")
	if got := s.Load(); len(got) != 1 || got[0].Completed {
		t.Errorf("typing changed tasks: %+v", got)
	}
	if string(m.input) != "dqx" {
		t.Errorf("input = %q", string(m.input))
	}
}

func TestAddTaskCancel(t *testing.T) {
	m, s := newTestModel(t)

	press(m, "a")
	typeText(m, "nope")
	press(m, "esc")

	if m.mode != modeBrowse || len(m.input) != 0 {
		t.Errorf("mode %v input %q", m.mode, string(m.input))
	}
	if got := s.Load(); len(got) != 0 {
		t.Errorf("tasks = %+v", got)
	}
}

func TestCompleteSelected(t *testing.T) {
	for _, k := range []string{"x", "enter"} {
		t.Run(k, func(t *testing.T) {
			m, s := newTestModel(t, store.Task{ID: 1, Description: "a"}, store.Task{ID: 2, Description: "b"})

			press(m, "down", k)
			if m.status != "Task 2 marked as complete." {
				t.Errorf("status = %q", m.status)
			}
			tasks := s.Load()
			if tasks[0].Completed || !tasks[1].Completed {
				t.Errorf("tasks = %+v", tasks)
			}
			if m.entries[1].Status != store.StatusCompleted {
				t.Errorf("entries not refreshed: %+v", m.entries)
			}
		})
	}
}

func TestRemoveSelected(t *testing.T) {
	m, s := newTestModel(t, store.Task{ID: 1, Description: "a"}, store.Task{ID: 2, Description: "b"})

	press(m, "down", "d")
	if m.status != "Task 2 removed." {
		t.Errorf("status = %q", m.status)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
	tasks := s.Load()
	if len(tasks) != 1 || tasks[0].ID != 1 {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	m, s := newTestModel(t, store.Task{ID: 1, Description: "a"})

	if _, err := s.Add("from elsewhere"); err != nil {
		t.Fatal(err)
	}
	if len(m.entries) != 1 {
		t.Fatalf("entries changed before reload")
	}
	press(m, "r")
	if len(m.entries) != 2 {
		t.Errorf("entries = %+v", m.entries)
	}
}

func TestSaveErrorShownInStatus(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	s := store.New(filepath.Join(blocker, "tasks.json"))
	m := newModel(menu.NewDispatcher(s, nil), s.Path())
	m.Init()

	press(m, "a")
	typeText(m, "x")
	cmd := press(m, "enter")

	if cmd != nil {
		t.Error("save error must not quit")
	}
	if m.statusKind != menu.KindError || !strings.HasPrefix(m.status, "Error: ") {
		t.Errorf("status %q kind %v", m.status, m.statusKind)
	}
	if !strings.Contains(m.View(), "Error: ") {
		t.Errorf("view missing error:\n%s", m.View())
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Errorf("help not shown:\n%s", m.View())
	}
	press(m, "?")
	if strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help still shown after second toggle")
	}
}

func TestQuit(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{"q", []string{"q"}},
		{"ctrl+c", []string{"ctrl+c"}},
		{"ctrl+c while typing", []string{"a", "ctrl+c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			cmd := press(m, tt.keys...)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("expected tea.QuitMsg")
			}
		})
	}
}

func TestIsTTY(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("buffer reported as TTY")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("regular file reported as TTY")
	}
}
