package domain

import "time"

// ─── Point Ledger Types ─────────────────────────────────────────────────────

// TransactionType is the direction of a point adjustment.
type TransactionType string

const (
	TxAdd      TransactionType = "add"
	TxSubtract TransactionType = "subtract"
)

// Valid reports whether t is a known adjustment direction.
func (t TransactionType) Valid() bool {
	return t == TxAdd || t == TxSubtract
}

// PointTransaction is one append-only ledger row: an administrator granting
// or deducting points from a worker.
type PointTransaction struct {
	ID         string          `json:"id"`
	WorkerID   string          `json:"workerId"`
	WorkerName string          `json:"workerName"`
	AdminID    string          `json:"adminId"`
	AdminName  string          `json:"adminName"`
	Amount     int64           `json:"amount"`
	Type       TransactionType `json:"type"`
	Timestamp  time.Time       `json:"timestamp"`
	Reason     string          `json:"reason"`
}

// Signed returns the amount with the sign of its direction.
func (t PointTransaction) Signed() int64 {
	if t.Type == TxSubtract {
		return -t.Amount
	}
	return t.Amount
}

// NewTransaction carries the caller-supplied fields of a ledger entry; the
// ledger fills in ID and Timestamp.
type NewTransaction struct {
	WorkerID   string
	WorkerName string
	AdminID    string
	AdminName  string
	Amount     int64
	Type       TransactionType
	Reason     string
}
