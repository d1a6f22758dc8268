package menu

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskmgr/internal/store"
)

// Store is the set of task operations the menu needs.
type Store interface {
	Add(description string) (store.Task, error)
	List() []store.Entry
	MarkComplete(id int) (store.Task, error)
	Remove(id int) (int, error)
	Rewrite() error
}

// Kind classifies a dispatch result.
type Kind int

const (
	KindOK Kind = iota
	KindEmpty
	KindNotFound
	KindInvalid
	KindError
	KindExit
)

// Result is the outcome of one command.
type Result struct {
	Kind    Kind
	Lines   []string      // user-facing messages, one per line
	Entries []store.Entry // listing for the view action
	Err     error         // set when Kind is KindError
}

// Exit reports whether the session should stop.
func (r Result) Exit() bool {
	return r.Kind == KindExit
}

// Message joins the result lines.
func (r Result) Message() string {
	return strings.Join(r.Lines, "\n")
}

// Dispatcher runs menu commands against a store.
type Dispatcher struct {
	store  Store
	logger *log.Logger
}

// NewDispatcher creates a dispatcher. A nil logger discards output.
func NewDispatcher(s Store, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{store: s, logger: logger}
}

// Dispatch runs cmd and describes the outcome. Store write failures are
// reported as KindError results, never returned or panicked.
func (d *Dispatcher) Dispatch(cmd Command) Result {
	d.logger.Debug("dispatch", "action", cmd.Action)

	switch cmd.Action {
	case ActionAdd:
		return d.add(cmd.Arg)
	case ActionView:
		return d.view()
	case ActionComplete:
		return d.complete(cmd.Arg)
	case ActionRemove:
		return d.remove(cmd.Arg)
	case ActionExit:
		return Result{Kind: KindExit}
	default:
		return Result{Kind: KindInvalid, Lines: []string{"Invalid option. Please try again."}}
	}
}

func (d *Dispatcher) add(description string) Result {
	task, err := d.store.Add(description)
	if err != nil {
		return d.failure("add", err)
	}
	d.logger.Info("task added", "id", task.ID)
	return Result{Kind: KindOK, Lines: []string{fmt.Sprintf("Task added: %s", description)}}
}

func (d *Dispatcher) view() Result {
	entries := d.store.List()
	if len(entries) == 0 {
		return Result{Kind: KindEmpty, Lines: []string{"No tasks available."}, Entries: entries}
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.String())
	}
	return Result{Kind: KindOK, Lines: lines, Entries: entries}
}

func (d *Dispatcher) complete(arg string) Result {
	id, ok := store.ParseID(arg)
	if !ok {
		d.logger.Debug("invalid task id", "arg", arg)
		return Result{Kind: KindNotFound, Lines: []string{"Task not found."}}
	}
	task, err := d.store.MarkComplete(id)
	if errors.Is(err, store.ErrNotFound) {
		d.logger.Debug("task not found", "id", id)
		return Result{Kind: KindNotFound, Lines: []string{"Task not found."}}
	}
	if err != nil {
		return d.failure("complete", err)
	}
	d.logger.Info("task completed", "id", task.ID)
	return Result{Kind: KindOK, Lines: []string{fmt.Sprintf("Task %d marked as complete.", task.ID)}}
}

func (d *Dispatcher) remove(arg string) Result {
	label := strings.TrimSpace(arg)
	id, ok := store.ParseID(arg)
	if !ok {
		// Nothing can match, but removal always writes the file back.
		if err := d.store.Rewrite(); err != nil {
			return d.failure("remove", err)
		}
		d.logger.Debug("invalid task id", "arg", arg)
		return Result{Kind: KindOK, Lines: []string{fmt.Sprintf("Task %s removed.", label)}}
	}

	removed, err := d.store.Remove(id)
	if err != nil {
		return d.failure("remove", err)
	}
	d.logger.Info("task removed", "id", id, "removed", removed)
	return Result{Kind: KindOK, Lines: []string{fmt.Sprintf("Task %d removed.", id)}}
}

func (d *Dispatcher) failure(action string, err error) Result {
	d.logger.Error("command failed", "action", action, "err", err)
	return Result{
		Kind:  KindError,
		Lines: []string{fmt.Sprintf("Error: %v", err)},
		Err:   err,
	}
}
