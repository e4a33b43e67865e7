// Package storage provides durable key-value slots for locally persisted
// state. Each key holds one opaque value that is replaced as a whole on every
// write.
//
// Three backends are available: a directory of files, a SQLite database and
// process-local memory. There is no cross-process locking; concurrent writers
// in different processes race and the last writer wins.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Backend is a durable key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open creates the named backend rooted at dir (DefaultDir when empty). The
// memory backend ignores dir.
func Open(backend, dir string) (Backend, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case "", BackendFile:
		return NewFileStore(dir)
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, "geotodo.db"))
	default:
		return nil, fmt.Errorf("unsupported storage backend %q, must be one of: file, sqlite, memory", backend)
	}
}

// DefaultDir returns $XDG_DATA_HOME/geotodo, falling back to
// ~/.local/share/geotodo.
func DefaultDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "geotodo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".geotodo")
	}
	return filepath.Join(home, ".local", "share", "geotodo")
}
