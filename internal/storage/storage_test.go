package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/tasks-go/internal/todo"
)

var testTime = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func openAll(t *testing.T) map[Kind]KV {
	t.Helper()
	backends := map[Kind]KV{}
	for _, kind := range []Kind{KindFile, KindSQLite, KindMemory} {
		kv, err := Open(kind, t.TempDir())
		if err != nil {
			t.Fatalf("Open(%s): %v", kind, err)
		}
		t.Cleanup(func() { _ = kv.Close() })
		backends[kind] = kv
	}
	return backends
}

func TestKVContract(t *testing.T) {
	ctx := context.Background()
	for kind, kv := range openAll(t) {
		t.Run(string(kind), func(t *testing.T) {
			if _, err := kv.Get(ctx, "tasks"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get on empty store: got %v, want ErrNotFound", err)
			}

			if err := kv.Set(ctx, "tasks", []byte("first")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := kv.Set(ctx, "tasks", []byte("second")); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, err := kv.Get(ctx, "tasks")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != "second" {
				t.Errorf("Get: got %q, want second", got)
			}

			if err := kv.Set(ctx, "theme", []byte(`"dark"`)); err != nil {
				t.Fatalf("Set theme: %v", err)
			}
			if got, _ := kv.Get(ctx, "tasks"); string(got) != "second" {
				t.Errorf("keys must be independent, tasks = %q", got)
			}

			if err := kv.Delete(ctx, "tasks"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := kv.Get(ctx, "tasks"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete: got %v, want ErrNotFound", err)
			}
			if err := kv.Delete(ctx, "tasks"); err != nil {
				t.Errorf("Delete of missing key: %v", err)
			}
		})
	}
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kv, err := Open(KindSQLite, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := kv.Set(ctx, "tasks", []byte("[]\n")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, SQLiteFileName)); err != nil {
		t.Fatalf("database file missing: %v", err)
	}

	kv, err = Open(KindSQLite, dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()
	got, err := kv.Get(ctx, "tasks")
	if err != nil || string(got) != "[]\n" {
		t.Errorf("after reopen: got %q, %v", got, err)
	}
}

func TestFileKVLayout(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}

	if err := kv.Set(ctx, "tasks", []byte("[]\n")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if kv.Path("tasks") != filepath.Join(dir, "tasks.json") {
		t.Errorf("Path: got %s", kv.Path("tasks"))
	}
	if _, err := os.Stat(filepath.Join(dir, "tasks.json")); err != nil {
		t.Errorf("value file missing: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}

	if _, err := NewFileKV(""); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := map[string]string{
		"tasks":       "tasks",
		"my tasks":    "my_tasks",
		"../../etc":   "etc",
		"..":          "default",
		"a/b":         "a_b",
		"":            "default",
		"work.v2":     "work.v2",
		"__hidden__":  "hidden",
		"..tasks":     "tasks",
		"team-board1": "team-board1",
	}
	for in, want := range tests {
		if got := sanitizeKey(in); got != want {
			t.Errorf("sanitizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateKey(t *testing.T) {
	tests := map[string]bool{
		"tasks":   true,
		"work.v2": true,
		"a-b_c":   true,
		"":        false,
		"theme.":  false,
		"a/b":     false,
		"a b":     false,
		"__x":     false,
		"..":      false,
	}
	for key, valid := range tests {
		err := ValidateKey(key)
		if (err == nil) != valid {
			t.Errorf("ValidateKey(%q) = %v, want valid=%v", key, err, valid)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "", want: KindFile},
		{in: "file", want: KindFile},
		{in: "SQLite", want: KindSQLite},
		{in: "memory", want: KindMemory},
		{in: "redis", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMemoryKVFailures(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	boom := errors.New("disk full")

	kv.FailWrites = boom
	if err := kv.Set(ctx, "k", []byte("v")); !errors.Is(err, boom) {
		t.Errorf("Set: got %v, want %v", err, boom)
	}
	kv.FailWrites = nil
	kv.FailReads = boom
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, boom) {
		t.Errorf("Get: got %v, want %v", err, boom)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		tasks []todo.Task
	}{
		{name: "empty", tasks: []todo.Task{}},
		{name: "seed", tasks: todo.SeedTasks(testTime)},
		{
			name: "mixed",
			tasks: []todo.Task{
				{ID: "0192f0c4-7a1e-7d3a-9c1b-3f5e8a2b6c4d", Title: `quotes " and \ slashes`, Completed: true, CreatedAt: 1767225600123},
				{ID: "x", Title: "ünïcødé ✓", CreatedAt: 0},
				{ID: "y", Title: "", CreatedAt: 1},
			},
		},
		{
			name: "before 1970",
			tasks: []todo.Task{
				{ID: "old", Title: "moon landing", Completed: true, CreatedAt: time.Date(1969, 7, 20, 20, 17, 0, 0, time.UTC).UnixMilli()},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeTasks(tt.tasks)
			if err != nil {
				t.Fatalf("EncodeTasks: %v", err)
			}
			got, err := DecodeTasks(data)
			if err != nil {
				t.Fatalf("DecodeTasks: %v", err)
			}
			if !reflect.DeepEqual(got, tt.tasks) {
				t.Errorf("round trip: got %+v, want %+v", got, tt.tasks)
			}
		})
	}
}

func TestEncodeTasksFormat(t *testing.T) {
	data, err := EncodeTasks([]todo.Task{{ID: "1", Title: "a", CreatedAt: 5}})
	if err != nil {
		t.Fatalf("EncodeTasks: %v", err)
	}
	want := "[\n  {\n    \"id\": \"1\",\n    \"title\": \"a\",\n    \"completed\": false,\n    \"createdAt\": 5\n  }\n]\n"
	if string(data) != want {
		t.Errorf("got:\n%s\nwant:\n%s", data, want)
	}

	empty, err := EncodeTasks(nil)
	if err != nil || string(empty) != "[]\n" {
		t.Errorf("EncodeTasks(nil) = %q, %v", empty, err)
	}
}

func TestDecodeTasks(t *testing.T) {
	got, err := DecodeTasks([]byte("null"))
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("null: got %#v, %v", got, err)
	}

	bad := []string{
		`not json`,
		`{"id":"1"}`,
		`[{"id":"1","title":"a","completed":false}]`,
		`[{"id":"1","title":"a","completed":false,"createdAt":1},{"id":"1","title":"b","completed":false,"createdAt":2}]`,
	}
	for _, in := range bad {
		if _, err := DecodeTasks([]byte(in)); err == nil {
			t.Errorf("DecodeTasks(%s): expected error", in)
		}
	}
}
