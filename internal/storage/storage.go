// Package storage provides the durable key-value store the client keeps its local
// state in. It plays the role browser local storage plays for a web front-end.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by GetItem when the key has no entry
var ErrNotFound = errors.New("storage: item not found")

const (
	BackendSQLite  = "sqlite"
	BackendKeyring = "keyring"
)

// Storage is a string key-value store. Writes are visible to subsequent reads
// through the same Storage immediately.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// Options selects and configures a backend
type Options struct {
	Backend string
	// Path is the SQLite database file. Ignored by the keyring backend.
	Path string
	// Service namespaces keyring entries. Ignored by the SQLite backend.
	Service string
}

// Open returns the backend named by opts.Backend (SQLite when empty)
func Open(opts Options) (Storage, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		return OpenSQLite(opts.Path)
	case BackendKeyring:
		return NewKeyring(opts.Service), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected %s or %s)", opts.Backend, BackendSQLite, BackendKeyring)
	}
}
