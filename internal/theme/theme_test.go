package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/nibzard/tasks-go/internal/storage"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{in: "", want: Light},
		{in: "light", want: Light},
		{in: " Dark ", want: Dark},
		{in: "solarized", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestToggle(t *testing.T) {
	if got := Light.Toggle(); got != Dark {
		t.Errorf("Light.Toggle() = %s, want dark", got)
	}
	if got := Dark.Toggle(); got != Light {
		t.Errorf("Dark.Toggle() = %s, want light", got)
	}
	if Dark.Palette() != DarkPalette || Light.Palette() != LightPalette {
		t.Error("palette does not match theme")
	}
}

func TestManagerPersists(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	m, err := NewManager(ctx, kv, Light)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if m.Current() != Light {
		t.Fatalf("Current: got %s, want light", m.Current())
	}

	next, err := m.Toggle(ctx)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if next != Dark {
		t.Errorf("Toggle: got %s, want dark", next)
	}

	data, err := kv.Get(ctx, StorageKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != `"dark"` {
		t.Errorf("stored: got %s, want \"dark\"", data)
	}

	again, err := NewManager(ctx, kv, Light)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Current() != Dark {
		t.Errorf("reloaded: got %s, want dark", again.Current())
	}
}

func TestManagerFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid stored value", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		_ = kv.Set(ctx, StorageKey, []byte(`"neon"`))
		m, err := NewManager(ctx, kv, Dark)
		if err == nil {
			t.Error("expected decode error")
		}
		if m.Current() != Dark {
			t.Errorf("Current: got %s, want fallback dark", m.Current())
		}
	})

	t.Run("nil storage", func(t *testing.T) {
		m, err := NewManager(ctx, nil, "")
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}
		if err := m.Set(ctx, Dark); err != nil {
			t.Errorf("Set: %v", err)
		}
		if m.Current() != Dark {
			t.Errorf("Current: got %s", m.Current())
		}
	})

	t.Run("write failure keeps theme", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		m, _ := NewManager(ctx, kv, Light)
		kv.FailWrites = errors.New("read-only")
		if _, err := m.Toggle(ctx); err == nil {
			t.Error("expected save error")
		}
		if m.Current() != Dark {
			t.Errorf("Current: got %s, want dark", m.Current())
		}
	})
}
