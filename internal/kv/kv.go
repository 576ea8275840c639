// Package kv is the local persistent key-value area the habit store writes
// to. A value is an opaque byte slice stored whole under one key.
package kv

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

// ErrNotFound is returned by Get when a key has never been set.
var ErrNotFound = errors.New("kv: key not found")

// Store is a synchronous, single-writer key-value area.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DBFile is the database file name used by the sqlite backend.
const DBFile = "bitsy.db"

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("kv: invalid key %q", key)
	}
	return nil
}

// Open returns the store for backend rooted at dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(dataDir)
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dataDir, DBFile))
	case BackendMemory:
		return NewMemStore(), nil
	default:
		return nil, fmt.Errorf("kv: unknown backend %q (want file or sqlite)", backend)
	}
}
