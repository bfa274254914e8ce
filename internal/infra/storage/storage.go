// Package storage is the persistent key-value adapter under every registry.
//
// It wraps a domain.KeyValueStore (sqlite, redis, or memory) with JSON
// encoding and converts every failure into a false result: quota errors,
// an unreachable backend, corrupt payloads and even backend panics are
// logged, counted and swallowed. The in-memory registry state is always
// authoritative; persistence is best-effort write-through.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pointmoney/pointmoney/internal/domain"
	"github.com/pointmoney/pointmoney/internal/infra/observability"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 3 * time.Second

// Adapter implements domain.Persister over a KeyValueStore.
type Adapter struct {
	kv      domain.KeyValueStore
	log     zerolog.Logger
	timeout time.Duration
}

// New creates an adapter. A nil store behaves as permanently unavailable.
func New(kv domain.KeyValueStore, log zerolog.Logger) *Adapter {
	return &Adapter{
		kv:      kv,
		log:     log.With().Str("component", "storage").Logger(),
		timeout: DefaultTimeout,
	}
}

// Get decodes the value under key into dst. On any failure dst is left as
// the caller initialised it and false is returned.
func (a *Adapter) Get(key string, dst any) bool {
	raw, err := a.call("get", key, func(ctx context.Context) ([]byte, error) {
		return a.kv.Get(ctx, key)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			a.fail("get", key, err)
		}
		return false
	}
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		a.fail("get", key, fmt.Errorf("decode: %w", err))
		return false
	}
	return true
}

// Set JSON-encodes value and stores it under key.
func (a *Adapter) Set(key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		a.fail("set", key, fmt.Errorf("encode: %w", err))
		return false
	}
	if _, err := a.call("set", key, func(ctx context.Context) ([]byte, error) {
		return nil, a.kv.Set(ctx, key, raw)
	}); err != nil {
		a.fail("set", key, err)
		return false
	}
	return true
}

// Remove deletes key.
func (a *Adapter) Remove(key string) bool {
	if _, err := a.call("remove", key, func(ctx context.Context) ([]byte, error) {
		return nil, a.kv.Delete(ctx, key)
	}); err != nil {
		a.fail("remove", key, err)
		return false
	}
	return true
}

// call runs fn against the backend with a timeout, turning a nil backend
// or a panic into an error.
func (a *Adapter) call(op, key string, fn func(ctx context.Context) ([]byte, error)) (raw []byte, err error) {
	observability.StorageOperations.WithLabelValues(op).Inc()
	if a.kv == nil {
		return nil, domain.ErrStorageUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			raw, err = nil, fmt.Errorf("%w: panic in backend: %v", domain.ErrStorageUnavailable, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	return fn(ctx)
}

func (a *Adapter) fail(op, key string, err error) {
	observability.StorageFailures.WithLabelValues(op).Inc()
	a.log.Warn().Err(err).Str("op", op).Str("key", key).Msg("storage is not available")
}
