package auth

import (
	"encoding/json"

	"github.com/pointmoney/pointmoney/internal/domain"
	"github.com/pointmoney/pointmoney/internal/infra/storage"
)

// SlotKey is the persisted slot of the auth registry.
const SlotKey = "auth-storage"

// SeedUsers returns the users every install starts with.
func SeedUsers() map[string]domain.User {
	return map[string]domain.User{
		"kkkk1111": {
			ID:       "kkkk1111",
			LoginID:  "kkkk1111",
			Name:     "管理者",
			Email:    "admin@pointmoney.com",
			Role:     domain.RoleAdmin,
			Status:   domain.StatusActive,
			JoinedAt: "2024-01-01",
		},
		"kkkk2222": {
			ID:       "kkkk2222",
			LoginID:  "kkkk2222",
			Name:     "テストワーカー",
			Email:    "worker@pointmoney.com",
			Role:     domain.RoleWorker,
			Status:   domain.StatusActive,
			JoinedAt: "2024-01-15",
		},
	}
}

// Schema is the versioned slot definition of the auth registry.
func Schema() storage.Schema {
	return storage.Schema{
		Key:     SlotKey,
		Version: 1,
		Migrations: map[int]storage.Migration{
			0: migrateV0,
		},
	}
}

// migrateV0 merges the seed users under the stored map, stored entries
// winning, and pins the seed ids back to their seed roles. A payload that
// is not a state object resets to the initial state.
func migrateV0(raw json.RawMessage) (json.RawMessage, error) {
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return json.Marshal(InitialState())
	}

	merged := SeedUsers()
	for id, u := range st.Users {
		if seed, ok := merged[id]; ok {
			u.Role = seed.Role
		}
		merged[id] = u
	}
	st.Users = merged

	if st.User != nil {
		if u, ok := merged[st.User.ID]; ok {
			current := u.Clone()
			st.User = &current
		} else {
			st.User = nil
			st.IsAuthenticated = false
		}
	}
	return json.Marshal(st)
}
