package todo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyTask is returned when a todo is created without a task.
	ErrEmptyTask = errors.New("todo task is required")
	// ErrInvalidTask is returned for a task that is not valid UTF-8 and so
	// cannot be written to the todo file unchanged.
	ErrInvalidTask = errors.New("todo task is not valid UTF-8")
	// ErrDuplicateTask is returned when a task with the same text exists.
	ErrDuplicateTask = errors.New("task already exists")
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("todo not found")
	// ErrUnknownLabel is returned for a status label or name that maps to no status.
	ErrUnknownLabel = errors.New("unknown todo status")
	// ErrCorrupt is matched by errors from a todo file that exists but cannot be decoded.
	ErrCorrupt = errors.New("todo file is malformed")
)

// ValidationError is a rejected create.
type ValidationError struct {
	Task string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Task != "" {
		return fmt.Sprintf("%s: %q", e.Err, e.Task)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an id with no matching record.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("todo %q not found", e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Problem is a single defect found while decoding the todo file.
type Problem struct {
	Path string // JSON path to the error location, e.g. "[2].status"
	Err  error
}

func (p *Problem) Error() string {
	if p.Path != "" {
		return fmt.Sprintf("%s: %s", p.Path, p.Err)
	}
	return p.Err.Error()
}

// Unwrap returns the underlying error.
func (p *Problem) Unwrap() error {
	return p.Err
}

// DecodeError reports a todo file that exists but does not hold a valid list.
type DecodeError struct {
	Path     string
	Problems []*Problem
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "decode todo file %s", e.Path)
	for i, p := range e.Problems {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(p.Error())
	}
	return b.String()
}

// Is reports whether target is ErrCorrupt.
func (e *DecodeError) Is(target error) bool {
	return target == ErrCorrupt
}

// Unwrap returns the individual problems.
func (e *DecodeError) Unwrap() []error {
	errs := make([]error, 0, len(e.Problems))
	for _, p := range e.Problems {
		errs = append(errs, p)
	}
	return errs
}
