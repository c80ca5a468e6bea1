package types

import "time"

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// validPriorities is the set of recognized priority values.
var validPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// ValidPriority reports whether p is a recognized priority value.
func ValidPriority(p string) bool {
	return validPriorities[p]
}

// Task represents a unit of work, optionally broken into subtasks.
// ID is assigned exactly once at creation and never reused; CreatedAt is
// immutable after creation. Subtasks are owned exclusively by their
// parent and travel with it through every store operation.
type Task struct {
	ID          string    // UUID v7, generated on creation.
	Title       string    // Human-readable title (required, non-empty).
	Description string    // Optional free-text detail.
	Priority    string    // One of the Priority constants.
	Completed   bool      // Whether the task is finished.
	CreatedAt   time.Time // Timestamp of creation, immutable.
	Subtasks    []Subtask // Ordered; user-authored order is meaningful.
}

// Subtask is a step within a parent Task. Its ID is unique within the
// parent only; subtasks are never addressed independently in the store.
type Subtask struct {
	ID          string
	Title       string
	Description string
	Completed   bool
}

// Validate checks that the task is well-formed.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if !ValidPriority(t.Priority) {
		return ErrInvalidPriority
	}
	return nil
}

// Complete marks the task and every subtask as finished. Idempotent.
func (t *Task) Complete() {
	t.Completed = true
	for i := range t.Subtasks {
		t.Subtasks[i].Completed = true
	}
}

// Progress returns the number of completed subtasks and the total count.
func (t *Task) Progress() (done, total int) {
	for _, s := range t.Subtasks {
		if s.Completed {
			done++
		}
	}
	return done, len(t.Subtasks)
}
