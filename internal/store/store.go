package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Store owns the task file at a single path.
// It assumes exclusive access to that file.
type Store struct {
	path   string
	policy IDPolicy
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithIDPolicy sets the id assignment policy.
func WithIDPolicy(policy IDPolicy) Option {
	return func(s *Store) {
		s.policy = policy
	}
}

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a store for the task file at path. The file does not need to exist.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		policy: IDPolicyMax,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the task file. A missing, empty, or malformed file yields an
// empty slice; Load never fails.
func (s *Store) Load() []Task {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("no tasks file", "path", s.path)
		} else {
			s.logger.Warn("tasks file unreadable, treating as empty", "path", s.path, "err", err)
		}
		return []Task{}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Task{}
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		s.logger.Warn("tasks file malformed, treating as empty", "path", s.path, "err", err)
		return []Task{}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	s.logger.Debug("loaded tasks", "path", s.path, "count", len(tasks))
	return tasks
}

// Save replaces the task file with tasks, using 2-space indentation.
func (s *Store) Save(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create tasks dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}

	s.logger.Debug("saved tasks", "path", s.path, "count", len(tasks))
	return nil
}

// Add appends a new pending task with the next id and saves the file.
// The description is stored as given, including the empty string.
func (s *Store) Add(description string) (Task, error) {
	tasks := s.Load()
	task := Task{
		ID:          NextID(tasks, s.policy),
		Description: description,
	}
	tasks = append(tasks, task)
	if err := s.Save(tasks); err != nil {
		return Task{}, err
	}
	return task, nil
}

// List returns the current tasks in file order. An empty result means the
// store has no tasks.
func (s *Store) List() []Entry {
	tasks := s.Load()
	entries := make([]Entry, 0, len(tasks))
	for _, t := range tasks {
		entries = append(entries, t.Entry())
	}
	return entries
}

// MarkComplete marks the first task with id as completed and saves the file.
// It returns ErrNotFound without writing when no task matches.
func (s *Store) MarkComplete(id int) (Task, error) {
	tasks := s.Load()
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Completed = true
			if err := s.Save(tasks); err != nil {
				return Task{}, err
			}
			return tasks[i], nil
		}
	}
	return Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
}

// Remove deletes every task with id and saves the file, even when nothing
// matched. It returns the number of tasks removed.
func (s *Store) Remove(id int) (int, error) {
	tasks := s.Load()
	kept := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if err := s.Save(kept); err != nil {
		return 0, err
	}
	return len(tasks) - len(kept), nil
}

// Rewrite saves the current tasks unchanged. It is the write a removal
// performs when the requested id cannot match any task.
func (s *Store) Rewrite() error {
	return s.Save(s.Load())
}
