// Package todo defines tasks, the task state reducer, filters, and
// derived statistics.
//
// The persisted form of a task list is a JSON array:
//
//	[
//	  {
//	    "id": "0192f0c4-7a1e-7d3a-9c1b-3f5e8a2b6c4d",
//	    "title": "Task title",
//	    "completed": false,
//	    "createdAt": 1767225600000
//	  }
//	]
//
// createdAt is a Unix timestamp in milliseconds.
//
// # State transitions
//
// State is only changed through Reducer.Reduce. Each Action variant is
// a distinct type; the set is closed to this package:
//
//   - Initialize: replace all tasks, clear loading
//   - AddTask: append a new task with a fresh id and the current time
//   - ToggleTask: flip completed on the matching task
//   - UpdateTask: replace the title on the matching task
//   - DeleteTask: remove the matching task
//   - SetLoading: set the loading flag
//   - SetError: set the error message
//
// Actions naming an id that is not present leave the state unchanged.
//
// # Validation
//
// Decoded payloads are checked in two passes:
//
// 1. JSON Schema validation against the embedded task list schema
// (draft 2020-12): types, required fields, no extra properties.
//
// 2. Structural checks the schema cannot express, such as duplicate ids.
package todo
