// Package ledger is the append-only history of point adjustments.
//
// Entries are prepended, so the newest is first. The ledger does not
// validate: amounts, types and the existence of the worker are checked by
// the caller before AddTransaction.
package ledger

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pointmoney/pointmoney/internal/domain"
	"github.com/pointmoney/pointmoney/internal/infra/storage"
)

// SlotKey is the persisted slot of the ledger.
const SlotKey = "point-storage"

// State is the persisted snapshot of the ledger.
type State struct {
	Transactions []domain.PointTransaction `json:"transactions"`
}

// Clone returns a copy that shares nothing with s.
func (s State) Clone() State {
	out := make([]domain.PointTransaction, len(s.Transactions))
	copy(out, s.Transactions)
	return State{Transactions: out}
}

// Schema is the versioned slot definition of the ledger.
func Schema() storage.Schema {
	return storage.Schema{Key: SlotKey, Version: 1}
}

// Ledger holds every point transaction.
type Ledger struct {
	mu     sync.RWMutex
	state  State
	store  domain.Persister
	schema storage.Schema
	log    zerolog.Logger
	now    func() time.Time
}

// New restores the ledger from store, or starts empty.
func New(store domain.Persister, log zerolog.Logger) *Ledger {
	l := &Ledger{
		store:  store,
		schema: Schema(),
		log:    log.With().Str("component", "ledger").Logger(),
		now:    time.Now,
	}
	var restored State
	if err := l.schema.Load(store, &restored); err != nil {
		if !errors.Is(err, storage.ErrNoSnapshot) {
			l.log.Warn().Err(err).Msg("discarding stored ledger")
		}
		restored = State{}
	}
	if restored.Transactions == nil {
		restored.Transactions = []domain.PointTransaction{}
	}
	l.state = restored
	return l
}

// AddTransaction assigns an id and timestamp and prepends the entry.
func (l *Ledger) AddTransaction(in domain.NewTransaction) domain.PointTransaction {
	tx := domain.PointTransaction{
		ID:         uuid.NewString(),
		WorkerID:   in.WorkerID,
		WorkerName: in.WorkerName,
		AdminID:    in.AdminID,
		AdminName:  in.AdminName,
		Amount:     in.Amount,
		Type:       in.Type,
		Timestamp:  l.now().UTC(),
		Reason:     in.Reason,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Transactions = append([]domain.PointTransaction{tx}, l.state.Transactions...)
	l.schema.Save(l.store, l.state)
	return tx
}

// ClearTransactions empties the ledger. Balances on users are not touched.
func (l *Ledger) ClearTransactions() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Transactions = []domain.PointTransaction{}
	l.schema.Save(l.store, l.state)
	l.log.Info().Msg("ledger cleared")
}

// Transactions returns every entry, newest first.
func (l *Ledger) Transactions() []domain.PointTransaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Clone().Transactions
}

// ByWorker returns the entries for one worker, newest first.
func (l *Ledger) ByWorker(workerID string) []domain.PointTransaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := []domain.PointTransaction{}
	for _, tx := range l.state.Transactions {
		if tx.WorkerID == workerID {
			out = append(out, tx)
		}
	}
	return out
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.state.Transactions)
}

// Snapshot returns a copy of the current state.
func (l *Ledger) Snapshot() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Clone()
}
