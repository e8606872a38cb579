package store

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/nissyi-gh/planner/internal/model"
)

// NoSelection is the index passed when no task is selected.
const NoSelection = -1

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("task not found")
	ErrFormat     = model.ErrFormat
)

// TaskStore holds the ordered task list. It is not safe for concurrent use;
// a single control flow owns it.
type TaskStore struct {
	tasks   []model.Task
	path    string
	logger  *log.Logger
	loadErr error
}

// New returns an empty store that is not backed by a file.
func New(logger *log.Logger) *TaskStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &TaskStore{logger: logger}
}

// Open loads the task file at path. A missing file yields an empty store.
// A malformed file also yields an empty store; the problem is logged and
// reported by LoadWarning.
func Open(path string, logger *log.Logger) *TaskStore {
	s := New(logger)
	s.path = path

	tasks, err := LoadFile(path)
	switch {
	case err == nil:
		s.tasks = tasks
		s.logger.Debug("tasks loaded", "path", path, "count", len(tasks))
	case errors.Is(err, errMissing):
		s.logger.Debug("no task file yet", "path", path)
	default:
		s.loadErr = err
		s.logger.Warn("ignoring unreadable task file", "path", path, "err", err)
	}
	return s
}

// LoadWarning returns the error that caused the task file to be ignored.
func (s *TaskStore) LoadWarning() error {
	return s.loadErr
}

// Path returns the task file path, empty for an in-memory store.
func (s *TaskStore) Path() string {
	return s.path
}

// Save overwrites the task file with the current list.
func (s *TaskStore) Save() error {
	if s.path == "" {
		return nil
	}
	if err := SaveFile(s.path, s.tasks); err != nil {
		return err
	}
	s.logger.Info("tasks saved", "path", s.path, "count", len(s.tasks))
	return nil
}

// Add appends a new task and returns its ID.
func (s *TaskStore) Add(description string, date model.Date, clock model.Clock, color string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("%w: description is empty", ErrValidation)
	}
	c, err := model.NormalizeColor(color)
	if err != nil {
		return "", err
	}
	t := model.Task{
		ID:          uuid.NewString(),
		Description: description,
		Date:        date,
		Time:        clock,
		Color:       c,
	}
	s.tasks = append(s.tasks, t)
	s.logger.Info("task added", "id", t.ID, "date", date, "time", clock)
	return t.ID, nil
}

// Delete removes the task at index.
func (s *TaskStore) Delete(index int) error {
	t, err := s.at(index, "delete")
	if err != nil {
		return err
	}
	s.remove(index)
	s.logger.Info("task deleted", "id", t.ID)
	return nil
}

// Edit removes the task at index and returns it so it can be corrected and
// added again.
func (s *TaskStore) Edit(index int) (model.Task, error) {
	t, err := s.at(index, "edit")
	if err != nil {
		return model.Task{}, err
	}
	s.remove(index)
	s.logger.Info("task taken for editing", "id", t.ID)
	return t, nil
}

// Restore inserts t at index, clamped to the list bounds.
func (s *TaskStore) Restore(index int, t model.Task) error {
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: description is empty", ErrValidation)
	}
	c, err := model.NormalizeColor(t.Color)
	if err != nil {
		return err
	}
	t.Color = c
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	index = max(0, min(index, len(s.tasks)))
	s.tasks = append(s.tasks, model.Task{})
	copy(s.tasks[index+1:], s.tasks[index:])
	s.tasks[index] = t
	return nil
}

// Complete marks the task at index as completed.
func (s *TaskStore) Complete(index int) error {
	if _, err := s.at(index, "complete"); err != nil {
		return err
	}
	s.tasks[index].Completed = true
	s.logger.Info("task completed", "id", s.tasks[index].ID)
	return nil
}

// List returns a copy of the tasks in order.
func (s *TaskStore) List() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// Due finds the first task scheduled for now, removes it and returns it.
// With catchUp, tasks whose minute has already passed also match.
// At most one task is returned per call.
func (s *TaskStore) Due(now time.Time, catchUp bool) (model.Task, bool) {
	for i, t := range s.tasks {
		if t.IsDueAt(now) || (catchUp && t.IsPastAt(now)) {
			s.remove(i)
			s.logger.Info("reminder due", "id", t.ID, "date", t.Date, "time", t.Time)
			return t, true
		}
	}
	return model.Task{}, false
}

func (s *TaskStore) at(index int, op string) (model.Task, error) {
	if index == NoSelection {
		return model.Task{}, fmt.Errorf("%w: select a task to %s", ErrNotFound, op)
	}
	if index < 0 || index >= len(s.tasks) {
		return model.Task{}, fmt.Errorf("%w: no task at position %d", ErrNotFound, index)
	}
	return s.tasks[index], nil
}

func (s *TaskStore) remove(index int) {
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
}
