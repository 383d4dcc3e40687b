// Package storage provides the durable key-value slot that tasks and
// the theme are persisted to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// KV is a small durable key-value store. Values are opaque bytes.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Kind names a KV backend.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// SQLiteFileName is the database file created under the data dir.
const SQLiteFileName = "tasks.db"

// ParseKind converts a string to a Kind. Empty input means KindFile.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindFile:
		return KindFile, nil
	case KindSQLite:
		return KindSQLite, nil
	case KindMemory:
		return KindMemory, nil
	default:
		return "", fmt.Errorf("invalid storage %q, must be one of: file, sqlite, memory", s)
	}
}

// Open returns the backend for kind rooted at dir. dir is ignored for
// KindMemory.
func Open(kind Kind, dir string) (KV, error) {
	switch kind {
	case KindFile, "":
		return NewFileKV(dir)
	case KindSQLite:
		return OpenSQLite(filepath.Join(dir, SQLiteFileName))
	case KindMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage kind %q", kind)
	}
}
