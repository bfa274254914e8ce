// Package auth is the user registry: the catalog of known users, the
// current session, and the process-wide custom icon.
//
// Every mutation updates memory first and then writes the whole state through
// to the "auth-storage" slot. Lookups that miss return ok=false and leave
// state untouched; nothing at this layer returns an error.
package auth

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pointmoney/pointmoney/internal/domain"
	"github.com/pointmoney/pointmoney/internal/infra/storage"
)

// ─── Persisted State ────────────────────────────────────────────────────────

// State is the persisted snapshot of the registry.
type State struct {
	User            *domain.User           `json:"user"`
	Users           map[string]domain.User `json:"users"`
	IsAuthenticated bool                   `json:"isAuthenticated"`
	CustomIcon      string                 `json:"customIcon,omitempty"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := State{
		IsAuthenticated: s.IsAuthenticated,
		CustomIcon:      s.CustomIcon,
		Users:           make(map[string]domain.User, len(s.Users)),
	}
	for id, u := range s.Users {
		c.Users[id] = u.Clone()
	}
	if s.User != nil {
		u := s.User.Clone()
		c.User = &u
	}
	return c
}

// InitialState is the state of a fresh install: the seed users, no session.
func InitialState() State {
	return State{Users: SeedUsers()}
}

// ─── Registry ───────────────────────────────────────────────────────────────

// Registry owns the user catalog and the session.
type Registry struct {
	mu     sync.RWMutex
	state  State
	store  domain.Persister
	schema storage.Schema
	log    zerolog.Logger
	now    func() time.Time
}

// NewRegistry restores the registry from store, falling back to the
// initial state when the slot is empty, unreadable or unmigratable.
func NewRegistry(store domain.Persister, log zerolog.Logger) *Registry {
	r := &Registry{
		store:  store,
		schema: Schema(),
		log:    log.With().Str("component", "auth").Logger(),
		now:    time.Now,
	}

	var restored State
	if err := r.schema.Load(store, &restored); err != nil {
		if !errors.Is(err, storage.ErrNoSnapshot) {
			r.log.Warn().Err(err).Msg("discarding stored auth state")
		}
		r.state = InitialState()
		return r
	}
	if len(restored.Users) == 0 {
		r.log.Warn().Msg("stored auth state has no users; starting from seed users")
		r.state = InitialState()
		return r
	}
	r.state = restored
	return r
}

// persist writes the whole state through. Must hold r.mu.
func (r *Registry) persist() {
	r.schema.Save(r.store, r.state)
}

// Login starts a session for the stored user with the given id and stamps
// its lastLogin. Credentials are the caller's concern.
func (r *Registry) Login(id string) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.state.Users[id]
	if !ok {
		return domain.User{}, false
	}
	now := r.now().UTC()
	u.LastLogin = &now
	r.state.Users[id] = u
	current := u.Clone()
	r.state.User = &current
	r.state.IsAuthenticated = true
	r.persist()

	r.log.Info().Str("user_id", id).Msg("user logged in")
	return u.Clone(), true
}

// Resume makes the stored user with the given id the session user again
// without stamping lastLogin. It restores a session that was displaced, it
// does not start a new one.
func (r *Registry) Resume(id string) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.state.Users[id]
	if !ok {
		return domain.User{}, false
	}
	current := u.Clone()
	r.state.User = &current
	r.state.IsAuthenticated = true
	r.persist()
	return u.Clone(), true
}

// Logout ends the session. Users, balances and history are kept; the custom
// icon is reset along with the session.
func (r *Registry) Logout() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.User = nil
	r.state.IsAuthenticated = false
	r.state.CustomIcon = ""
	r.persist()
}

// Current returns the authenticated user.
func (r *Registry) Current() (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.state.IsAuthenticated || r.state.User == nil {
		return domain.User{}, false
	}
	return r.state.User.Clone(), true
}

// IsAuthenticated reports whether a session is active.
func (r *Registry) IsAuthenticated() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.IsAuthenticated
}

// UpdateProfile shallow-merges upd into the current user's record.
func (r *Registry) UpdateProfile(upd domain.ProfileUpdate) (domain.User, bool) {
	return r.mutateCurrent(func(u *domain.User) {
		*u = upd.Apply(*u)
	})
}

// UpdateAvatar sets the current user's avatar.
func (r *Registry) UpdateAvatar(url string) (domain.User, bool) {
	return r.mutateCurrent(func(u *domain.User) {
		u.AvatarURL = url
	})
}

// UpdateIcon sets the process-wide custom icon.
func (r *Registry) UpdateIcon(base64 string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.CustomIcon = base64
	r.persist()
}

// Icon returns the process-wide custom icon, if any.
func (r *Registry) Icon() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.CustomIcon
}

// UpdatePoints sets the current user's balance. TotalEarned grows by the
// positive delta only.
func (r *Registry) UpdatePoints(points int64) (domain.User, bool) {
	return r.mutateCurrent(func(u *domain.User) {
		setBalance(u, points)
	})
}

// UpdateUserPoints sets any user's balance, clamped at zero. TotalEarned
// grows by the positive delta only.
func (r *Registry) UpdateUserPoints(id string, points int64) (domain.User, bool) {
	return r.mutate(id, func(u *domain.User) {
		setBalance(u, points)
		if u.Points < 0 {
			u.Points = 0
		}
	})
}

func setBalance(u *domain.User, points int64) {
	if delta := points - u.Points; delta > 0 {
		u.TotalEarned += delta
	}
	u.Points = points
}

// AddUser inserts a new user. It refuses a duplicate id or login id.
func (r *Registry) AddUser(u domain.User) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.state.Users[u.ID]; exists {
		return domain.User{}, false
	}
	for _, other := range r.state.Users {
		if other.LoginID == u.LoginID {
			return domain.User{}, false
		}
	}
	r.state.Users[u.ID] = u.Clone()
	r.persist()
	return u.Clone(), true
}

// GetUser looks a user up by id.
func (r *Registry) GetUser(id string) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.state.Users[id]
	if !ok {
		return domain.User{}, false
	}
	return u.Clone(), true
}

// FindByLoginID looks a user up by login id.
func (r *Registry) FindByLoginID(loginID string) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.state.Users {
		if u.LoginID == loginID {
			return u.Clone(), true
		}
	}
	return domain.User{}, false
}

// Users returns every user ordered by join date, then id.
func (r *Registry) Users() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.state.Users))
	for _, u := range r.state.Users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt != out[j].JoinedAt {
			return out[i].JoinedAt < out[j].JoinedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Workers returns the worker roster.
func (r *Registry) Workers() []domain.User {
	all := r.Users()
	out := all[:0]
	for _, u := range all {
		if u.IsWorker() {
			out = append(out, u)
		}
	}
	return out
}

// Snapshot returns a deep copy of the current state.
func (r *Registry) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Clone()
}

// mutateCurrent applies fn to the authenticated user's stored record.
func (r *Registry) mutateCurrent(fn func(u *domain.User)) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.IsAuthenticated || r.state.User == nil {
		return domain.User{}, false
	}
	return r.mutateLocked(r.state.User.ID, fn)
}

// mutate applies fn to the stored user with the given id.
func (r *Registry) mutate(id string, fn func(u *domain.User)) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mutateLocked(id, fn)
}

// mutateLocked keeps the session copy in step and writes through.
// Must hold r.mu.
func (r *Registry) mutateLocked(id string, fn func(u *domain.User)) (domain.User, bool) {
	u, ok := r.state.Users[id]
	if !ok {
		return domain.User{}, false
	}
	fn(&u)
	r.state.Users[id] = u
	if r.state.User != nil && r.state.User.ID == id {
		current := u.Clone()
		r.state.User = &current
	}
	r.persist()
	return u.Clone(), true
}
