package store

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/clock"
	"github.com/nibzard/tasks-go/internal/storage"
	"github.com/nibzard/tasks-go/internal/todo"
)

var testNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func openTest(t *testing.T, kv storage.KV, opts ...Option) (*Store, *clock.FakeClock) {
	t.Helper()
	c := clock.Fake(testNow)
	base := []Option{WithClock(c), WithIDGenerator(&todo.SequenceIDs{Prefix: "n"})}
	return Open(context.Background(), kv, append(base, opts...)...), c
}

func stored(t *testing.T, kv storage.KV, key string) []todo.Task {
	t.Helper()
	data, err := kv.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get(%s): %v", key, err)
	}
	tasks, err := storage.DecodeTasks(data)
	if err != nil {
		t.Fatalf("DecodeTasks: %v", err)
	}
	return tasks
}

func TestHydrateEmptyStorageSeeds(t *testing.T) {
	kv := storage.NewMemoryKV()
	s, _ := openTest(t, kv)

	state := s.State()
	if len(state.Tasks) != 3 {
		t.Fatalf("tasks: got %d, want 3", len(state.Tasks))
	}
	if state.Loading {
		t.Error("loading should end false")
	}
	if state.Error != "" {
		t.Errorf("error should be absent, got %q", state.Error)
	}
	if !reflect.DeepEqual(state.Tasks, todo.SeedTasks(testNow)) {
		t.Errorf("tasks: got %+v, want seed list", state.Tasks)
	}

	// The seed list is written back.
	if got := stored(t, kv, DefaultKey); !reflect.DeepEqual(got, state.Tasks) {
		t.Errorf("stored: got %+v, want %+v", got, state.Tasks)
	}
}

func TestHydrateFromStorage(t *testing.T) {
	kv := storage.NewMemoryKV()
	saved := []todo.Task{{ID: "x", Title: "saved", Completed: true, CreatedAt: 77}}
	data, err := storage.EncodeTasks(saved)
	if err != nil {
		t.Fatalf("EncodeTasks: %v", err)
	}
	if err := kv.Set(context.Background(), DefaultKey, data); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s, _ := openTest(t, kv)
	state := s.State()
	if !reflect.DeepEqual(state.Tasks, saved) {
		t.Errorf("tasks: got %+v, want %+v", state.Tasks, saved)
	}
	if state.Loading || state.Error != "" {
		t.Errorf("unexpected flags: %+v", state)
	}
}

func TestHydrateFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(kv *storage.MemoryKV)
	}{
		{
			name: "corrupt payload",
			setup: func(kv *storage.MemoryKV) {
				_ = kv.Set(context.Background(), DefaultKey, []byte("{not json"))
			},
		},
		{
			name: "schema mismatch",
			setup: func(kv *storage.MemoryKV) {
				_ = kv.Set(context.Background(), DefaultKey, []byte(`[{"id":1}]`))
			},
		},
		{
			name: "read error",
			setup: func(kv *storage.MemoryKV) {
				kv.FailReads = errors.New("permission denied")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryKV()
			tt.setup(kv)
			var logs bytes.Buffer
			s, _ := openTest(t, kv, WithLogger(log.New(&logs)))

			state := s.State()
			if state.Error != LoadErrorMessage {
				t.Errorf("error: got %q, want %q", state.Error, LoadErrorMessage)
			}
			if len(state.Tasks) != 0 {
				t.Errorf("tasks should be empty, got %+v", state.Tasks)
			}
			if state.Loading {
				t.Error("loading should be cleared after a failed load")
			}
			if !strings.Contains(logs.String(), "tasks") {
				t.Errorf("expected failure to be logged, got %q", logs.String())
			}
		})
	}

	t.Run("corrupt payload is not overwritten", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		_ = kv.Set(context.Background(), DefaultKey, []byte("garbage"))
		openTest(t, kv)
		data, _ := kv.Get(context.Background(), DefaultKey)
		if string(data) != "garbage" {
			t.Errorf("stored payload changed to %q", data)
		}
	})
}

func TestOperationsPersist(t *testing.T) {
	kv := storage.NewMemoryKV()
	s, c := openTest(t, kv)

	c.Advance(time.Minute)
	s.AddTask("  Buy milk  ")

	state := s.State()
	if len(state.Tasks) != 4 {
		t.Fatalf("tasks: got %d, want 4", len(state.Tasks))
	}
	added := state.Tasks[3]
	if added.Title != "Buy milk" {
		t.Errorf("title: got %q, want %q", added.Title, "Buy milk")
	}
	if added.Completed {
		t.Error("new task should not be completed")
	}
	if added.CreatedAt != testNow.Add(time.Minute).UnixMilli() {
		t.Errorf("createdAt: got %d", added.CreatedAt)
	}
	for _, other := range state.Tasks[:3] {
		if other.ID == added.ID {
			t.Errorf("id %s not unique", added.ID)
		}
	}

	s.ToggleTask(added.ID)
	s.UpdateTask("1", "  Learn reducers  ")
	s.DeleteTask("2")

	state = s.State()
	want := []todo.Task{
		{ID: "1", Title: "Learn reducers", CreatedAt: testNow.UnixMilli()},
		{ID: "3", Title: "Build advanced features", CreatedAt: testNow.Add(-2 * time.Hour).UnixMilli()},
		{ID: added.ID, Title: "Buy milk", Completed: true, CreatedAt: added.CreatedAt},
	}
	if !reflect.DeepEqual(state.Tasks, want) {
		t.Errorf("tasks: got %+v, want %+v", state.Tasks, want)
	}
	if got := stored(t, kv, DefaultKey); !reflect.DeepEqual(got, want) {
		t.Errorf("stored: got %+v, want %+v", got, want)
	}
}

func TestBlankInputIgnored(t *testing.T) {
	s, _ := openTest(t, storage.NewMemoryKV())
	before := s.State()

	s.AddTask("   ")
	s.UpdateTask("1", "\t")

	if after := s.State(); !reflect.DeepEqual(after, before) {
		t.Errorf("blank input changed state: %+v", after)
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	kv := storage.NewMemoryKV()
	s, _ := openTest(t, kv)
	before := s.State()

	writes := 0
	s.Subscribe(func(prev, next todo.State) {
		if !reflect.DeepEqual(prev.Tasks, next.Tasks) {
			writes++
		}
	})
	s.DeleteTask("does-not-exist")

	after := s.State()
	if !reflect.DeepEqual(after, before) {
		t.Errorf("state changed: got %+v, want %+v", after, before)
	}
	if writes != 0 {
		t.Errorf("tasks changed %d times", writes)
	}
}

func TestSaveFailureSurfaced(t *testing.T) {
	kv := storage.NewMemoryKV()
	var logs bytes.Buffer
	s, _ := openTest(t, kv, WithLogger(log.New(&logs)))

	kv.FailWrites = errors.New("disk full")
	s.AddTask("will not persist")

	state := s.State()
	if state.Error != SaveErrorMessage {
		t.Errorf("error: got %q, want %q", state.Error, SaveErrorMessage)
	}
	if len(state.Tasks) != 4 {
		t.Errorf("in-memory state should keep the new task, got %d tasks", len(state.Tasks))
	}
	if !strings.Contains(logs.String(), "disk full") {
		t.Errorf("expected write failure in logs, got %q", logs.String())
	}

	// The next successful change writes the whole list, including the
	// task whose first write failed.
	kv.FailWrites = nil
	s.ToggleTask("1")
	if got := stored(t, kv, DefaultKey); len(got) != 4 {
		t.Errorf("stored: got %d tasks, want 4", len(got))
	}
}

func TestSubscribe(t *testing.T) {
	s, _ := openTest(t, storage.NewMemoryKV())

	var kinds []bool
	cancel := s.Subscribe(func(prev, next todo.State) {
		kinds = append(kinds, len(next.Tasks) > len(prev.Tasks))
	})

	s.AddTask("one")
	s.ToggleTask("1")
	cancel()
	s.AddTask("two")

	want := []bool{true, false}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("observed: got %v, want %v", kinds, want)
	}
}

func TestDispatchFlags(t *testing.T) {
	s, _ := openTest(t, storage.NewMemoryKV())

	s.Dispatch(todo.SetError{Message: "banner"})
	s.Dispatch(todo.SetLoading{Loading: true})
	s.Dispatch(nil)

	state := s.State()
	if state.Error != "banner" || !state.Loading {
		t.Errorf("flags: got %+v", state)
	}
}

func TestWithKeyAndSeed(t *testing.T) {
	kv := storage.NewMemoryKV()
	s, _ := openTest(t, kv,
		WithKey("work"),
		WithSeed(func(now time.Time) []todo.Task { return nil }),
	)

	if s.Key() != "work" {
		t.Errorf("Key: got %s, want work", s.Key())
	}
	if n := len(s.State().Tasks); n != 0 {
		t.Errorf("tasks: got %d, want 0", n)
	}

	s.AddTask("under work key")
	if got := stored(t, kv, "work"); len(got) != 1 {
		t.Errorf("stored under work: got %d tasks", len(got))
	}
	if _, err := kv.Get(context.Background(), DefaultKey); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("default key should be untouched, got %v", err)
	}
}

func TestOpenWithFileBackend(t *testing.T) {
	dir := t.TempDir()
	kv, err := storage.Open(storage.KindFile, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	first, _ := openTest(t, kv)
	first.AddTask("persist me")
	want := first.State().Tasks

	second, _ := openTest(t, kv)
	if got := second.State().Tasks; !reflect.DeepEqual(got, want) {
		t.Errorf("reopened: got %+v, want %+v", got, want)
	}
}

// gatedKV holds the first armed Set until release is closed.
type gatedKV struct {
	*storage.MemoryKV
	armed   atomic.Bool
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedKV) Set(ctx context.Context, key string, value []byte) error {
	if g.armed.Load() {
		hold := false
		g.once.Do(func() { hold = true })
		if hold {
			close(g.entered)
			<-g.release
		}
	}
	return g.MemoryKV.Set(ctx, key, value)
}

func TestConcurrentWritesKeepNewestList(t *testing.T) {
	kv := &gatedKV{
		MemoryKV: storage.NewMemoryKV(),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	s, _ := openTest(t, kv)
	kv.armed.Store(true)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.AddTask("A")
	}()
	<-kv.entered
	go func() {
		defer wg.Done()
		s.AddTask("B")
	}()

	deadline := time.Now().Add(5 * time.Second)
	for len(s.State().Tasks) != 5 {
		if time.Now().After(deadline) {
			t.Fatal("second add never reached the state")
		}
		time.Sleep(time.Millisecond)
	}
	close(kv.release)
	wg.Wait()

	want := s.State().Tasks
	if got := stored(t, kv.MemoryKV, DefaultKey); !reflect.DeepEqual(got, want) {
		t.Errorf("stored %d tasks, state has %d", len(got), len(want))
	}
}

func TestDispatchRejectsInvalidInitialize(t *testing.T) {
	kv := storage.NewMemoryKV()
	s, _ := openTest(t, kv)
	before := s.State().Tasks

	tests := []struct {
		name  string
		tasks []todo.Task
	}{
		{"duplicate ids", []todo.Task{{ID: "x", Title: "a"}, {ID: "x", Title: "b"}}},
		{"empty id", []todo.Task{{ID: "", Title: "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Dispatch(todo.Initialize{Tasks: tt.tasks})
			if got := s.State().Tasks; !reflect.DeepEqual(got, before) {
				t.Errorf("tasks: got %+v, want %+v", got, before)
			}
		})
	}
	if got := stored(t, kv, DefaultKey); !reflect.DeepEqual(got, before) {
		t.Errorf("stored: got %+v", got)
	}

	s.Dispatch(todo.Initialize{Tasks: []todo.Task{{ID: "y", Title: "ok"}}})
	if got := s.State().Tasks; len(got) != 1 || got[0].Title != "ok" {
		t.Errorf("valid Initialize: got %+v", got)
	}
}
