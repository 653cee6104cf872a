package kv

import (
	"context"
	"fmt"
)

// Open builds the store named by backend ("file", "sqlite", "redis" or "memory").
func Open(ctx context.Context, backend, dir, redisAddr string) (Store, error) {
	switch backend {
	case "", "file":
		return NewFileStore(dir)
	case "sqlite":
		return NewSQLiteStore(dir, "learnsimply.db")
	case "redis":
		return NewRedisStore(ctx, redisAddr)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
