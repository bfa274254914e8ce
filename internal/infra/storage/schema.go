package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pointmoney/pointmoney/internal/domain"
)

// ─── Versioned Slots ────────────────────────────────────────────────────────

// Envelope is the on-disk shape of a registry slot.
type Envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// Migration upgrades a snapshot from version N to N+1.
type Migration func(state json.RawMessage) (json.RawMessage, error)

// Schema binds a registry snapshot to a named slot and a version, with the
// migrations needed to reach that version from older payloads.
type Schema struct {
	Key        string
	Version    int
	Migrations map[int]Migration // keyed by the version they upgrade from
}

// ErrNoSnapshot means the slot is empty or unreadable.
var ErrNoSnapshot = errors.New("no stored snapshot")

// Save writes state to the slot at the schema's current version.
func (s Schema) Save(p domain.Persister, state any) bool {
	raw, err := json.Marshal(state)
	if err != nil {
		return false
	}
	return p.Set(s.Key, Envelope{State: raw, Version: s.Version})
}

// Load reads the slot, applies migrations and decodes the result into dst.
// dst is untouched on error.
func (s Schema) Load(p domain.Persister, dst any) error {
	var env Envelope
	if !p.Get(s.Key, &env) {
		return ErrNoSnapshot
	}

	state, err := s.Migrate(env.Version, env.State)
	if err != nil {
		return err
	}
	if len(state) == 0 {
		return ErrNoSnapshot
	}
	if err := json.Unmarshal(state, dst); err != nil {
		return fmt.Errorf("decode %s v%d: %w", s.Key, s.Version, err)
	}
	return nil
}

// Migrate walks state from version `from` up to the schema version.
func (s Schema) Migrate(from int, state json.RawMessage) (json.RawMessage, error) {
	if from > s.Version {
		return nil, fmt.Errorf("%s: stored version %d is newer than %d", s.Key, from, s.Version)
	}
	for v := from; v < s.Version; v++ {
		m, ok := s.Migrations[v]
		if !ok {
			return nil, fmt.Errorf("%s: no migration from version %d", s.Key, v)
		}
		next, err := m(state)
		if err != nil {
			return nil, fmt.Errorf("%s: migrate v%d: %w", s.Key, v, err)
		}
		state = next
	}
	return state, nil
}

// Clear removes the slot.
func (s Schema) Clear(p domain.Persister) bool {
	return p.Remove(s.Key)
}
