// Package kv is the persistence layer: a small key-value Store interface with
// file, SQLite, Redis and in-memory backends, and an Adapter that reads and
// writes JSON records under namespaced keys in a persistent and an ephemeral
// scope.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kv: key not found")

// Store holds raw values by key. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys returns every key starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
