// Package withdrawal holds workers' requests to cash out points and their
// review status.
//
// The registry records whatever status it is given. The lifecycle in
// domain.WithdrawalStatus is advisory; callers decide which transitions to
// allow.
package withdrawal

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pointmoney/pointmoney/internal/domain"
	"github.com/pointmoney/pointmoney/internal/infra/observability"
	"github.com/pointmoney/pointmoney/internal/infra/storage"
)

// SlotKey is the persisted slot of the withdrawal registry.
const SlotKey = "withdrawal-storage"

// State is the persisted snapshot of the registry.
type State struct {
	Requests []domain.WithdrawalRequest `json:"requests"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := make([]domain.WithdrawalRequest, len(s.Requests))
	for i, r := range s.Requests {
		out[i] = r.Clone()
	}
	return State{Requests: out}
}

// Schema is the versioned slot definition of the registry.
func Schema() storage.Schema {
	return storage.Schema{Key: SlotKey, Version: 1}
}

// Registry holds every withdrawal request, newest first.
type Registry struct {
	mu     sync.RWMutex
	state  State
	store  domain.Persister
	schema storage.Schema
	log    zerolog.Logger
	now    func() time.Time
}

// NewRegistry restores the registry from store, or starts empty.
func NewRegistry(store domain.Persister, log zerolog.Logger) *Registry {
	r := &Registry{
		store:  store,
		schema: Schema(),
		log:    log.With().Str("component", "withdrawal").Logger(),
		now:    time.Now,
	}
	var restored State
	if err := r.schema.Load(store, &restored); err != nil {
		if !errors.Is(err, storage.ErrNoSnapshot) {
			r.log.Warn().Err(err).Msg("discarding stored withdrawal requests")
		}
		restored = State{}
	}
	if restored.Requests == nil {
		restored.Requests = []domain.WithdrawalRequest{}
	}
	r.state = restored
	r.syncGauge()
	return r
}

// AddRequest files a new pending request.
func (r *Registry) AddRequest(in domain.NewWithdrawal) domain.WithdrawalRequest {
	req := domain.WithdrawalRequest{
		ID:             uuid.NewString(),
		WorkerID:       in.WorkerID,
		WorkerName:     in.WorkerName,
		Amount:         in.Amount,
		PaymentMethod:  in.PaymentMethod,
		Status:         domain.WithdrawalPending,
		Timestamp:      r.now().UTC(),
		PaymentDetails: in.PaymentDetails,
	}
	req = req.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Requests = append([]domain.WithdrawalRequest{req}, r.state.Requests...)
	r.commit()
	observability.WithdrawalTransitions.WithLabelValues(string(domain.WithdrawalPending)).Inc()
	return req.Clone()
}

// UpdateStatus records a review of the request: the new status, when, by
// whom, and the admin comment (overwritten, even when empty). An unknown id
// returns false and changes nothing.
func (r *Registry) UpdateStatus(id string, status domain.WithdrawalStatus, adminID, adminName, comment string) (domain.WithdrawalRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.state.Requests {
		req := &r.state.Requests[i]
		if req.ID != id {
			continue
		}
		now := r.now().UTC()
		req.Status = status
		req.ProcessedAt = &now
		req.ProcessedBy = &domain.ProcessedBy{ID: adminID, Name: adminName}
		req.AdminComment = comment
		r.commit()

		observability.WithdrawalTransitions.WithLabelValues(string(status)).Inc()
		r.log.Info().Str("request_id", id).Str("status", string(status)).Str("admin_id", adminID).Msg("withdrawal status updated")
		return req.Clone(), true
	}
	return domain.WithdrawalRequest{}, false
}

// Get looks a request up by id.
func (r *Registry) Get(id string) (domain.WithdrawalRequest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, req := range r.state.Requests {
		if req.ID == id {
			return req.Clone(), true
		}
	}
	return domain.WithdrawalRequest{}, false
}

// RequestsByWorker returns one worker's requests, newest first.
func (r *Registry) RequestsByWorker(workerID string) []domain.WithdrawalRequest {
	return r.filter(func(req domain.WithdrawalRequest) bool {
		return req.WorkerID == workerID
	})
}

// PendingRequests returns every request awaiting review, newest first.
func (r *Registry) PendingRequests() []domain.WithdrawalRequest {
	return r.filter(func(req domain.WithdrawalRequest) bool {
		return req.Status == domain.WithdrawalPending
	})
}

// Requests returns every request, newest first.
func (r *Registry) Requests() []domain.WithdrawalRequest {
	return r.filter(func(domain.WithdrawalRequest) bool { return true })
}

// ClearRequests empties the registry.
func (r *Registry) ClearRequests() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Requests = []domain.WithdrawalRequest{}
	r.commit()
	r.log.Info().Msg("withdrawal requests cleared")
}

// Snapshot returns a deep copy of the current state.
func (r *Registry) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Clone()
}

func (r *Registry) filter(keep func(domain.WithdrawalRequest) bool) []domain.WithdrawalRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.WithdrawalRequest{}
	for _, req := range r.state.Requests {
		if keep(req) {
			out = append(out, req.Clone())
		}
	}
	return out
}

// commit writes through and refreshes the pending gauge. Must hold r.mu.
func (r *Registry) commit() {
	r.schema.Save(r.store, r.state)
	r.syncGauge()
}

func (r *Registry) syncGauge() {
	pending := 0
	for _, req := range r.state.Requests {
		if req.Status == domain.WithdrawalPending {
			pending++
		}
	}
	observability.PendingWithdrawals.Set(float64(pending))
}
