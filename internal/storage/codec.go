package storage

import (
	"encoding/json"
	"fmt"

	"github.com/nibzard/tasks-go/internal/todo"
)

// EncodeTasks serializes tasks as a JSON array with 2-space indentation
// and a trailing newline. A nil slice encodes as [].
func EncodeTasks(tasks []todo.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeTasks parses and validates a serialized task list. null decodes
// to an empty list.
func DecodeTasks(data []byte) ([]todo.Task, error) {
	if err := todo.ValidateJSON(data).Err(); err != nil {
		return nil, fmt.Errorf("invalid task list: %w", err)
	}
	var tasks []todo.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}
	return tasks, nil
}
