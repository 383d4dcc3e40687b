// Package store owns the canonical task state, hydrates it from storage
// on creation, and writes it back after every change to the task list.
package store

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/clock"
	"github.com/nibzard/tasks-go/internal/storage"
	"github.com/nibzard/tasks-go/internal/todo"
)

// DefaultKey is the storage key holding the task list.
const DefaultKey = "tasks"

// Messages placed in State.Error.
const (
	LoadErrorMessage = "Failed to load tasks from storage"
	SaveErrorMessage = "Failed to save tasks to storage"
)

// Observer is called after each committed transition with the state
// before and after it. Observers may call back into the Store.
type Observer func(prev, next todo.State)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for task timestamps and the seed list.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithIDGenerator sets the task id source.
func WithIDGenerator(ids todo.IDGenerator) Option {
	return func(s *Store) {
		s.ids = ids
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithSeed replaces the example list used when storage is empty.
func WithSeed(seed func(now time.Time) []todo.Task) Option {
	return func(s *Store) {
		s.seed = seed
	}
}

// WithKey sets the storage key. Empty keeps DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

type subscription struct {
	id int
	fn Observer
}

// Store holds the task state. All methods are safe for concurrent use;
// transitions are applied one at a time.
type Store struct {
	kv     storage.KV
	key    string
	clock  clock.Clock
	ids    todo.IDGenerator
	logger *log.Logger
	seed   func(now time.Time) []todo.Task

	// ctx is used for storage writes. It is detached from the Open
	// context's cancellation so a final write is not lost.
	ctx context.Context

	// writeMu orders storage writes. Each write saves the state current
	// when it acquires the lock, so the last write holds the newest list.
	writeMu sync.Mutex

	mu        sync.Mutex
	reducer   todo.Reducer
	state     todo.State
	observers []subscription
	nextSubID int
}

// Open creates a Store over kv, hydrates it, and starts persisting
// changes. A nil kv selects an in-memory store. Hydration failures are
// reported through State().Error rather than returned.
func Open(ctx context.Context, kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:   kv,
		key:  DefaultKey,
		seed: todo.SeedTasks,
		ctx:  context.WithoutCancel(ctx),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.kv == nil {
		s.kv = storage.NewMemoryKV()
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.reducer = todo.NewReducer(s.clock, s.ids)
	s.state = todo.State{Tasks: []todo.Task{}}

	s.Subscribe(s.persist)
	s.hydrate(ctx)
	return s
}

// State returns a snapshot of the current state. The returned Tasks
// slice must not be modified.
func (s *Store) State() todo.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Key returns the storage key the task list is persisted under.
func (s *Store) Key() string {
	return s.key
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

// Subscribe registers fn to run after every transition. The returned
// function removes it.
func (s *Store) Subscribe(fn Observer) (cancel func()) {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

// Dispatch applies action and notifies observers. An Initialize whose
// list has empty or duplicate ids is logged and dropped.
func (s *Store) Dispatch(action todo.Action) {
	if action == nil {
		return
	}
	if init, ok := action.(todo.Initialize); ok {
		if err := todo.ValidateTasks(init.Tasks).Err(); err != nil {
			s.logger.Error("rejecting task list", "action", action.Kind(), "err", err)
			return
		}
	}

	s.mu.Lock()
	prev := s.state
	next := s.reducer.Reduce(prev, action)
	s.state = next
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	s.logger.Debug("dispatch", "action", action.Kind(), "tasks", len(next.Tasks))
	for _, sub := range observers {
		sub.fn(prev, next)
	}
}

// AddTask adds a task with the trimmed title. Blank titles are ignored.
func (s *Store) AddTask(title string) {
	trimmed, ok := todo.NormalizeTitle(title)
	if !ok {
		s.logger.Debug("ignoring blank task title")
		return
	}
	s.Dispatch(todo.AddTask{Title: trimmed})
}

// ToggleTask flips the completed flag of task id.
func (s *Store) ToggleTask(id string) {
	s.Dispatch(todo.ToggleTask{ID: id})
}

// UpdateTask renames task id to the trimmed title. Blank titles are
// ignored.
func (s *Store) UpdateTask(id, title string) {
	trimmed, ok := todo.NormalizeTitle(title)
	if !ok {
		s.logger.Debug("ignoring blank task title", "id", id)
		return
	}
	s.Dispatch(todo.UpdateTask{ID: id, Title: trimmed})
}

// DeleteTask removes task id.
func (s *Store) DeleteTask(id string) {
	s.Dispatch(todo.DeleteTask{ID: id})
}

func (s *Store) hydrate(ctx context.Context) {
	s.Dispatch(todo.SetLoading{Loading: true})

	data, err := s.kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Info("no saved tasks, using examples", "key", s.key)
		s.Dispatch(todo.Initialize{Tasks: s.seed(s.clock.Now())})
		return
	case err != nil:
		s.logger.Error("load tasks", "key", s.key, "err", err)
		s.fail(LoadErrorMessage)
		return
	}

	tasks, err := storage.DecodeTasks(data)
	if err != nil {
		s.logger.Error("decode tasks", "key", s.key, "err", err)
		s.fail(LoadErrorMessage)
		return
	}
	s.logger.Debug("loaded tasks", "key", s.key, "count", len(tasks))
	s.Dispatch(todo.Initialize{Tasks: tasks})
}

func (s *Store) fail(message string) {
	s.Dispatch(todo.SetError{Message: message})
	s.Dispatch(todo.SetLoading{Loading: false})
}

// persist writes the task list whenever a transition changed it. Write
// failures are logged and surfaced through State.Error; there is no
// retry, the next change writes the full list again.
func (s *Store) persist(prev, next todo.State) {
	if slices.Equal(prev.Tasks, next.Tasks) {
		return
	}

	s.writeMu.Lock()
	tasks := s.State().Tasks
	data, err := storage.EncodeTasks(tasks)
	if err == nil {
		err = s.kv.Set(s.ctx, s.key, data)
	}
	s.writeMu.Unlock()

	if err != nil {
		s.logger.Error("save tasks", "key", s.key, "err", err)
		s.Dispatch(todo.SetError{Message: SaveErrorMessage})
		return
	}
	s.logger.Debug("saved tasks", "key", s.key, "count", len(tasks))
}
