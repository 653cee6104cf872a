package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jeanpaul/learnsimply/internal/logger"
)

type Scope int

const (
	// Persistent survives restarts: registry, history, vocabulary.
	Persistent Scope = iota
	// Ephemeral only holds the active session record.
	Ephemeral
)

func (s Scope) String() string {
	if s == Ephemeral {
		return "ephemeral"
	}
	return "persistent"
}

const DefaultNamespace = "learnsimply_"

// Adapter serializes JSON records into two stores under a common namespace.
// Reads fail soft: anything missing or unparsable is reported as absent.
type Adapter struct {
	persistent Store
	ephemeral  Store
	namespace  string
	log        *logger.Logger
}

func NewAdapter(persistent, ephemeral Store, namespace string, log *logger.Logger) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{
		persistent: persistent,
		ephemeral:  ephemeral,
		namespace:  namespace,
		log:        log.With("component", "kv"),
	}
}

func (a *Adapter) store(scope Scope) Store {
	if scope == Ephemeral {
		return a.ephemeral
	}
	return a.persistent
}

// Key prefixes name with the adapter namespace.
func (a *Adapter) Key(name string) string {
	return a.namespace + name
}

// GetJSON decodes the record at key into dst and reports whether it was found
// and well-formed. dst is left untouched otherwise.
func (a *Adapter) GetJSON(ctx context.Context, scope Scope, key string, dst any) bool {
	raw, err := a.store(scope).Get(ctx, a.Key(key))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.log.Warn("read failed, treating as absent", "key", key, "scope", scope.String(), "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		a.log.Warn("malformed record, treating as absent", "key", key, "scope", scope.String(), "error", err)
		return false
	}
	return true
}

// SetJSON encodes v and stores it at key. Errors are returned for the caller
// to report; nothing here panics.
func (a *Adapter) SetJSON(ctx context.Context, scope Scope, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.store(scope).Set(ctx, a.Key(key), raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (a *Adapter) Delete(ctx context.Context, scope Scope, key string) error {
	return a.store(scope).Delete(ctx, a.Key(key))
}

// Keys lists keys under prefix with the namespace stripped.
func (a *Adapter) Keys(ctx context.Context, scope Scope, prefix string) ([]string, error) {
	full, err := a.store(scope).Keys(ctx, a.Key(prefix))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(full))
	for _, k := range full {
		out = append(out, strings.TrimPrefix(k, a.namespace))
	}
	return out, nil
}

func (a *Adapter) Close() error {
	return errors.Join(a.persistent.Close(), a.ephemeral.Close())
}
