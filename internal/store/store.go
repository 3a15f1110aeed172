// Package store owns the in-memory todo collection and keeps the todo file
// in step with it.
//
// Every mutation builds the next collection, hands it to the Persister, and
// only then replaces the in-memory collection. A failed write therefore leaves
// the store as it was. Validation and not-found failures never write.
//
// A Store is not safe for concurrent use.
package store

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/todobox/internal/todo"
)

// maxIDAttempts bounds id regeneration on collision.
const maxIDAttempts = 8

// Persister reads and rewrites the whole todo collection.
// *todo.File implements it.
type Persister interface {
	Load() ([]todo.Todo, error)
	Save(todos []todo.Todo) error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDFunc replaces uuid.NewString as the id generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithResetOnCorrupt makes Open start with an empty collection when the
// todo file is malformed instead of failing. The file is left untouched until
// the next mutation rewrites it.
func WithResetOnCorrupt(enabled bool) Option {
	return func(s *Store) {
		s.resetOnCorrupt = enabled
	}
}

// Store is the authoritative todo collection.
type Store struct {
	persister      Persister
	todos          []todo.Todo
	logger         *log.Logger
	newID          func() string
	resetOnCorrupt bool
	recovered      error
}

// Open loads the collection from p. A malformed file is an error unless
// WithResetOnCorrupt is set.
func Open(p Persister, opts ...Option) (*Store, error) {
	if p == nil {
		return nil, errors.New("store: nil persister")
	}
	s := &Store{
		persister: p,
		logger:    log.New(io.Discard),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	todos, err := p.Load()
	if err != nil {
		if !s.resetOnCorrupt || !errors.Is(err, todo.ErrCorrupt) {
			return nil, fmt.Errorf("load todos: %w", err)
		}
		s.logger.Warn("todo file is malformed, starting with an empty list", "err", err)
		s.recovered = err
		todos = nil
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	s.todos = todos

	s.logger.Debug("todos loaded", "count", len(s.todos))
	return s, nil
}

// Recovered returns the decode error that Open discarded because of
// WithResetOnCorrupt, or nil.
func (s *Store) Recovered() error {
	return s.recovered
}

// Create appends a pending todo for task and persists the collection.
func (s *Store) Create(task string) (todo.Todo, error) {
	if task == "" {
		return todo.Todo{}, &todo.ValidationError{Err: todo.ErrEmptyTask}
	}
	if !utf8.ValidString(task) {
		return todo.Todo{}, &todo.ValidationError{Task: task, Err: todo.ErrInvalidTask}
	}
	if todo.HasTask(s.todos, task) {
		return todo.Todo{}, &todo.ValidationError{Task: task, Err: todo.ErrDuplicateTask}
	}

	id, err := s.uniqueID()
	if err != nil {
		return todo.Todo{}, err
	}
	created, err := todo.New(id, task)
	if err != nil {
		return todo.Todo{}, err
	}

	next := make([]todo.Todo, len(s.todos), len(s.todos)+1)
	copy(next, s.todos)
	next = append(next, created)
	if err := s.commit(next); err != nil {
		return todo.Todo{}, err
	}

	s.logger.Debug("todo created", "id", created.ID, "count", len(s.todos))
	return created, nil
}

// UpdateStatus sets the status of the todo with id and persists the collection.
func (s *Store) UpdateStatus(id string, status todo.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", todo.ErrUnknownLabel, status)
	}
	i := todo.IndexOf(s.todos, id)
	if i < 0 {
		return &todo.NotFoundError{ID: id}
	}

	next := s.List()
	next[i].Status = status
	if err := s.commit(next); err != nil {
		return err
	}

	s.logger.Debug("todo status updated", "id", id, "status", status)
	return nil
}

// Delete removes the todo with id and persists the collection.
func (s *Store) Delete(id string) error {
	i := todo.IndexOf(s.todos, id)
	if i < 0 {
		return &todo.NotFoundError{ID: id}
	}

	next := make([]todo.Todo, 0, len(s.todos)-1)
	next = append(next, s.todos[:i]...)
	next = append(next, s.todos[i+1:]...)
	if err := s.commit(next); err != nil {
		return err
	}

	s.logger.Debug("todo deleted", "id", id, "count", len(s.todos))
	return nil
}

// CompletionRatio returns the percentage of completed todos, 0 when empty.
func (s *Store) CompletionRatio() float64 {
	return todo.CompletionRatio(s.todos)
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []todo.Todo {
	out := make([]todo.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Get returns the todo with id.
func (s *Store) Get(id string) (todo.Todo, bool) {
	i := todo.IndexOf(s.todos, id)
	if i < 0 {
		return todo.Todo{}, false
	}
	return s.todos[i], true
}

// Resolve finds the todo whose id equals ref or, failing that, the single
// todo whose id starts with ref.
func (s *Store) Resolve(ref string) (todo.Todo, error) {
	if t, ok := s.Get(ref); ok {
		return t, nil
	}
	if ref == "" {
		return todo.Todo{}, &todo.NotFoundError{ID: ref}
	}
	var match []todo.Todo
	for _, t := range s.todos {
		if strings.HasPrefix(t.ID, ref) {
			match = append(match, t)
		}
	}
	switch len(match) {
	case 0:
		return todo.Todo{}, &todo.NotFoundError{ID: ref}
	case 1:
		return match[0], nil
	default:
		return todo.Todo{}, fmt.Errorf("id prefix %q is ambiguous (%d matches)", ref, len(match))
	}
}

// Path returns the backing file path when the persister is file-backed,
// otherwise "".
func (s *Store) Path() string {
	if f, ok := s.persister.(interface{ Path() string }); ok {
		return f.Path()
	}
	return ""
}

// Len returns the number of todos.
func (s *Store) Len() int {
	return len(s.todos)
}

// Counts returns the number of todos per status.
func (s *Store) Counts() map[todo.Status]int {
	return todo.Count(s.todos)
}

// commit persists next and adopts it as the collection.
func (s *Store) commit(next []todo.Todo) error {
	if err := s.persister.Save(next); err != nil {
		s.logger.Error("saving todos failed", "err", err)
		return fmt.Errorf("save todos: %w", err)
	}
	s.todos = next
	return nil
}

func (s *Store) uniqueID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		if id != "" && todo.IndexOf(s.todos, id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique todo id after %d attempts", maxIDAttempts)
}
