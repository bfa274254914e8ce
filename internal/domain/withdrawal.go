package domain

import "time"

// ─── Withdrawal Types ───────────────────────────────────────────────────────

// Withdrawal amount bounds, in points.
const (
	MinWithdrawalAmount int64 = 1_000
	MaxWithdrawalAmount int64 = 1_000_000
)

// PaymentMethod is the payout channel of a withdrawal.
type PaymentMethod string

const (
	PayBank   PaymentMethod = "bank"
	PayCrypto PaymentMethod = "crypto"
	PayPayPay PaymentMethod = "paypay"
)

// Valid reports whether m is a known payout channel.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PayBank, PayCrypto, PayPayPay:
		return true
	}
	return false
}

// WithdrawalStatus is the lifecycle state of a request.
//
//	pending ──► processing
//	   │
//	   ├──────► completed (terminal)
//	   └──────► rejected  (terminal)
//
// The registry does not enforce these edges.
type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalRejected   WithdrawalStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s WithdrawalStatus) Valid() bool {
	switch s {
	case WithdrawalPending, WithdrawalProcessing, WithdrawalCompleted, WithdrawalRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is expected from s.
func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalCompleted || s == WithdrawalRejected
}

// PaymentDetails is a snapshot of the payout fields at submission time.
// Only the field matching the request's method is set.
type PaymentDetails struct {
	BankInfo      *BankInfo `json:"bankInfo,omitempty"`
	CryptoAddress string    `json:"cryptoAddress,omitempty"`
	PayPayID      string    `json:"payPayId,omitempty"`
}

// ProcessedBy identifies the administrator who last resolved a request.
type ProcessedBy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WithdrawalRequest is a worker's ask to cash out points.
type WithdrawalRequest struct {
	ID             string           `json:"id"`
	WorkerID       string           `json:"workerId"`
	WorkerName     string           `json:"workerName"`
	Amount         int64            `json:"amount"`
	PaymentMethod  PaymentMethod    `json:"paymentMethod"`
	Status         WithdrawalStatus `json:"status"`
	Timestamp      time.Time        `json:"timestamp"`
	PaymentDetails PaymentDetails   `json:"paymentDetails"`
	AdminComment   string           `json:"adminComment,omitempty"`
	ProcessedAt    *time.Time       `json:"processedAt,omitempty"`
	ProcessedBy    *ProcessedBy     `json:"processedBy,omitempty"`
}

// NewWithdrawal carries the caller-supplied fields of a request; the registry
// fills in ID, Timestamp and Status.
type NewWithdrawal struct {
	WorkerID       string
	WorkerName     string
	Amount         int64
	PaymentMethod  PaymentMethod
	PaymentDetails PaymentDetails
}

// Clone returns a deep copy of the request.
func (r WithdrawalRequest) Clone() WithdrawalRequest {
	c := r
	if r.PaymentDetails.BankInfo != nil {
		b := *r.PaymentDetails.BankInfo
		c.PaymentDetails.BankInfo = &b
	}
	if r.ProcessedAt != nil {
		t := *r.ProcessedAt
		c.ProcessedAt = &t
	}
	if r.ProcessedBy != nil {
		p := *r.ProcessedBy
		c.ProcessedBy = &p
	}
	return c
}
