// Package theme holds the light/dark display preference and the color
// palettes used by the terminal UI.
package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasks-go/internal/storage"
)

// Theme is a display preference.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default is the theme used when nothing is stored or configured.
const Default = Light

// StorageKey is the key the preference is persisted under.
const StorageKey = "theme"

// Parse converts s to a Theme. The empty string yields Default.
func Parse(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Default, nil
	case string(Light):
		return Light, nil
	case string(Dark):
		return Dark, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool {
	return t == Dark
}

// Palette returns the colors for t.
func (t Theme) Palette() Palette {
	if t == Dark {
		return DarkPalette
	}
	return LightPalette
}

func (t Theme) String() string {
	return string(t)
}

// Manager keeps the current theme and writes it to storage on change.
// A failed write keeps the new theme in memory.
type Manager struct {
	kv storage.KV

	mu      sync.Mutex
	current Theme
}

// NewManager loads the stored theme from kv, falling back to fallback
// when nothing valid is stored. A nil kv keeps the preference in memory.
func NewManager(ctx context.Context, kv storage.KV, fallback Theme) (*Manager, error) {
	if fallback == "" {
		fallback = Default
	}
	m := &Manager{kv: kv, current: fallback}
	if kv == nil {
		return m, nil
	}

	data, err := kv.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return m, nil
	case err != nil:
		return m, fmt.Errorf("load theme: %w", err)
	}

	var stored string
	if err := json.Unmarshal(data, &stored); err != nil {
		return m, fmt.Errorf("decode theme: %w", err)
	}
	t, err := Parse(stored)
	if err != nil {
		return m, fmt.Errorf("decode theme: %w", err)
	}
	m.current = t
	return m, nil
}

// Current returns the active theme.
func (m *Manager) Current() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set makes t the active theme and persists it.
func (m *Manager) Set(ctx context.Context, t Theme) error {
	m.mu.Lock()
	m.current = t
	m.mu.Unlock()
	return m.save(ctx, t)
}

// Toggle switches between light and dark and returns the new theme.
func (m *Manager) Toggle(ctx context.Context) (Theme, error) {
	m.mu.Lock()
	next := m.current.Toggle()
	m.current = next
	m.mu.Unlock()
	return next, m.save(ctx, next)
}

func (m *Manager) save(ctx context.Context, t Theme) error {
	if m.kv == nil {
		return nil
	}
	data, err := json.Marshal(string(t))
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	if err := m.kv.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// Palette is the set of colors for one theme. All colors are ANSI
// 256-color codes.
type Palette struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	DoneText   lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	Accent           lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	ErrorForeground lipgloss.Color
	ErrorBackground lipgloss.Color

	// Stat tiles.
	StatTotal     lipgloss.Color
	StatCompleted lipgloss.Color
	StatActive    lipgloss.Color
	StatRate      lipgloss.Color
}

// DarkPalette is tuned for dark terminal backgrounds.
var DarkPalette = Palette{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	DoneText:   lipgloss.Color("240"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	Accent:           lipgloss.Color("75"), // blue
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	ErrorForeground: lipgloss.Color("255"),
	ErrorBackground: lipgloss.Color("124"),

	StatTotal:     lipgloss.Color("75"),
	StatCompleted: lipgloss.Color("114"),
	StatActive:    lipgloss.Color("220"),
	StatRate:      lipgloss.Color("141"),
}

// LightPalette is tuned for light terminal backgrounds.
var LightPalette = Palette{
	NormalText: lipgloss.Color("235"),
	FaintText:  lipgloss.Color("243"),
	DoneText:   lipgloss.Color("248"),

	SelectedBackground: lipgloss.Color("254"),
	SelectedForeground: lipgloss.Color("232"),

	HeaderForeground: lipgloss.Color("232"),
	Accent:           lipgloss.Color("26"),
	BorderColor:      lipgloss.Color("250"),
	HelpText:         lipgloss.Color("244"),

	ErrorForeground: lipgloss.Color("231"),
	ErrorBackground: lipgloss.Color("160"),

	StatTotal:     lipgloss.Color("26"),
	StatCompleted: lipgloss.Color("28"),
	StatActive:    lipgloss.Color("130"),
	StatRate:      lipgloss.Color("91"),
}
