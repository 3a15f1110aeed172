package todo

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Status represents a todo status.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Label returns the human-readable label for s.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// Next returns the status that follows s when cycling
// Pending -> In progress -> Completed -> Pending.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// Labels returns the labels of all statuses in display order.
func Labels() []string {
	labels := make([]string, 0, len(Statuses))
	for _, s := range Statuses {
		labels = append(labels, s.Label())
	}
	return labels
}

// ParseLabel maps a label ("Completed", "Pending", "In progress") to its status.
// Matching is exact.
func ParseLabel(label string) (Status, error) {
	for _, s := range Statuses {
		if s.Label() == label {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLabel, label)
}

// ParseStatus accepts either a label or a wire name, ignoring case and
// surrounding whitespace. "in-progress" and "in_progress" are accepted too.
func ParseStatus(value string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.NewReplacer("-", " ", "_", " ").Replace(v)
	for _, s := range Statuses {
		if v == strings.ToLower(s.Label()) || v == strings.ToLower(string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLabel, value)
}

// Todo is a single todo record.
type Todo struct {
	ID     string `json:"id"`
	Task   string `json:"task"`
	Status Status `json:"status"`
}

// Completed reports whether the record is completed.
func (t *Todo) Completed() bool {
	return t.Status == StatusCompleted
}

// New builds a pending record for task with the given id.
// It rejects an empty task and one that is not valid UTF-8.
func New(id, task string) (Todo, error) {
	if task == "" {
		return Todo{}, &ValidationError{Task: task, Err: ErrEmptyTask}
	}
	if !utf8.ValidString(task) {
		return Todo{}, &ValidationError{Task: task, Err: ErrInvalidTask}
	}
	return Todo{ID: id, Task: task, Status: StatusPending}, nil
}

// CompletionRatio returns the percentage of completed records in todos,
// in [0, 100]. It is 0 for an empty list.
func CompletionRatio(todos []Todo) float64 {
	total := len(todos)
	completed := 0
	for i := range todos {
		if todos[i].Completed() {
			completed++
		}
	}
	if total == 0 || completed == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// Count returns the number of records per status. Every status is present.
func Count(todos []Todo) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for i := range todos {
		counts[todos[i].Status]++
	}
	return counts
}

// IndexOf returns the position of the record with id, or -1.
func IndexOf(todos []Todo, id string) int {
	for i := range todos {
		if todos[i].ID == id {
			return i
		}
	}
	return -1
}

// HasTask reports whether any record has exactly this task text.
func HasTask(todos []Todo, task string) bool {
	for i := range todos {
		if todos[i].Task == task {
			return true
		}
	}
	return false
}
