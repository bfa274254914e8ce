package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// KeyValueStore abstracts the durable slot store under the registries
// (sqlite file, redis, or process memory).
type KeyValueStore interface {
	// Get returns the raw value, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Persister is the write-through binding a registry holds. Implementations
// never fail loudly: a false return means the value was not stored (or not
// found) and the caller carries on with its in-memory state.
type Persister interface {
	Get(key string, dst any) bool
	Set(key string, value any) bool
	Remove(key string) bool
}
