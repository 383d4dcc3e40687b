package todo

import (
	"fmt"
	"slices"
	"time"

	"github.com/nibzard/tasks-go/internal/clock"
)

// maxIDAttempts bounds how often a colliding id is regenerated before a
// numeric suffix is used instead.
const maxIDAttempts = 8

// Reducer computes the next State from the current State and an Action.
// Clock supplies creation times and IDs supplies fresh task ids.
type Reducer struct {
	Clock clock.Clock
	IDs   IDGenerator
}

// NewReducer returns a Reducer. Nil arguments select the real clock and
// time-ordered ids.
func NewReducer(c clock.Clock, ids IDGenerator) Reducer {
	if c == nil {
		c = clock.Real()
	}
	if ids == nil {
		ids = TimeOrderedIDs{}
	}
	return Reducer{Clock: c, IDs: ids}
}

// Reduce applies action to state and returns the resulting state. The
// input state is never modified. Transitions that change nothing return
// the input Tasks slice as is.
func (r Reducer) Reduce(state State, action Action) State {
	switch a := action.(type) {
	case Initialize:
		state.Tasks = slices.Clone(a.Tasks)
		if state.Tasks == nil {
			state.Tasks = []Task{}
		}
		state.Loading = false
		return state

	case AddTask:
		task := Task{
			ID:        r.freshID(state),
			Title:     a.Title,
			Completed: false,
			CreatedAt: r.now().UnixMilli(),
		}
		tasks := make([]Task, 0, len(state.Tasks)+1)
		tasks = append(tasks, state.Tasks...)
		state.Tasks = append(tasks, task)
		return state

	case ToggleTask:
		i := state.Index(a.ID)
		if i < 0 {
			return state
		}
		tasks := slices.Clone(state.Tasks)
		tasks[i].Completed = !tasks[i].Completed
		state.Tasks = tasks
		return state

	case UpdateTask:
		i := state.Index(a.ID)
		if i < 0 {
			return state
		}
		tasks := slices.Clone(state.Tasks)
		tasks[i].Title = a.Title
		state.Tasks = tasks
		return state

	case DeleteTask:
		i := state.Index(a.ID)
		if i < 0 {
			return state
		}
		tasks := make([]Task, 0, len(state.Tasks)-1)
		tasks = append(tasks, state.Tasks[:i]...)
		state.Tasks = append(tasks, state.Tasks[i+1:]...)
		return state

	case SetLoading:
		state.Loading = a.Loading
		return state

	case SetError:
		state.Error = a.Message
		return state

	case nil:
		return state

	default:
		// Unreachable: Action cannot be implemented outside this package.
		return state
	}
}

func (r Reducer) now() time.Time {
	if r.Clock == nil {
		return clock.Real().Now()
	}
	return r.Clock.Now()
}

// freshID returns an id not used by any task in state.
func (r Reducer) freshID(state State) string {
	ids := r.IDs
	if ids == nil {
		ids = TimeOrderedIDs{}
	}
	var candidate string
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate = ids.NewID()
		if candidate != "" && state.Index(candidate) < 0 {
			return candidate
		}
	}
	for n := 2; ; n++ {
		suffixed := fmt.Sprintf("%s-%d", candidate, n)
		if state.Index(suffixed) < 0 {
			return suffixed
		}
	}
}
