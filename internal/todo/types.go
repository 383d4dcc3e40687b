package todo

import (
	"strings"
	"time"
)

// Task represents a single to-do item.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"` // Unix milliseconds
}

// Created returns the creation time as a time.Time in the local zone.
func (t Task) Created() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// IsZero returns true if the task is empty (has no ID).
func (t Task) IsZero() bool {
	return t.ID == ""
}

// State is the full task state owned by a store.
type State struct {
	Tasks   []Task
	Loading bool
	Error   string // empty means no error
}

// Index returns the position of the task with id, or -1.
func (s State) Index(id string) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the task with id.
func (s State) Find(id string) (Task, bool) {
	if i := s.Index(id); i >= 0 {
		return s.Tasks[i], true
	}
	return Task{}, false
}

// Remaining returns the number of tasks not yet completed.
func (s State) Remaining() int {
	n := 0
	for _, t := range s.Tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// NormalizeTitle trims surrounding whitespace from a user supplied title.
// The second result is false when nothing is left.
func NormalizeTitle(title string) (string, bool) {
	trimmed := strings.TrimSpace(title)
	return trimmed, trimmed != ""
}

// SeedTasks returns the example list used when storage holds no task
// list yet, timestamped relative to now.
func SeedTasks(now time.Time) []Task {
	return []Task{
		{ID: "1", Title: "Learn useReducer hook", CreatedAt: now.UnixMilli()},
		{ID: "2", Title: "Implement task context", CreatedAt: now.Add(-time.Hour).UnixMilli()},
		{ID: "3", Title: "Build advanced features", CreatedAt: now.Add(-2 * time.Hour).UnixMilli()},
	}
}
