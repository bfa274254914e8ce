// Package observability holds the prometheus collectors and the in-memory
// activity recorder for pointmoney.
//
// This provides:
//   - Counters for logins, point adjustments, withdrawal transitions and
//     storage operations
//   - A bounded ring of recent use-case invocations for the admin activity view
package observability

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ═══════════════════════════════════════════════════════════════════════════
// Activity: recent use-case invocations, newest last
// ═══════════════════════════════════════════════════════════════════════════

// Outcome classifies an activity.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeRejected
)

func (o Outcome) String() string {
	if o == OutcomeRejected {
		return "rejected"
	}
	return "ok"
}

// Activity is one recorded use-case invocation.
type Activity struct {
	ID        string            `json:"id"`
	Operation string            `json:"operation"`
	ActorID   string            `json:"actor_id,omitempty"`
	StartTime time.Time         `json:"start_time"`
	Duration  time.Duration     `json:"duration"`
	Outcome   Outcome           `json:"outcome"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// ─── Recorder ───────────────────────────────────────────────────────────────

// Recorder keeps the most recent activities in a ring buffer.
type Recorder struct {
	mu      sync.Mutex
	entries []Activity
	max     int
	enabled bool
}

// RecorderConfig configures the recorder.
type RecorderConfig struct {
	Enabled    bool
	MaxEntries int // ring buffer size (default 1_000)
}

// DefaultRecorderConfig returns production defaults.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		Enabled:    true,
		MaxEntries: 1_000,
	}
}

// NewRecorder creates a new recorder.
func NewRecorder(cfg RecorderConfig) *Recorder {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultRecorderConfig().MaxEntries
	}
	return &Recorder{
		entries: make([]Activity, 0, cfg.MaxEntries),
		max:     cfg.MaxEntries,
		enabled: cfg.Enabled,
	}
}

// Start begins an activity. The caller must call Finish.
func (r *Recorder) Start(operation, actorID string, attrs map[string]string) *Activity {
	return &Activity{
		ID:        generateID(),
		Operation: operation,
		ActorID:   actorID,
		StartTime: time.Now(),
		Attrs:     attrs,
	}
}

// Finish completes an activity and records it. A nil recorder is a no-op.
func (r *Recorder) Finish(a *Activity, err error) {
	if r == nil || !r.enabled || a == nil {
		return
	}

	a.Duration = time.Since(a.StartTime)
	if err != nil {
		a.Outcome = OutcomeRejected
		if a.Attrs == nil {
			a.Attrs = make(map[string]string)
		}
		a.Attrs["error"] = err.Error()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Ring buffer: overwrite oldest if at capacity
	if len(r.entries) >= r.max {
		r.entries = r.entries[1:]
	}
	r.entries = append(r.entries, *a)
}

// Recent returns up to limit of the most recent activities.
func (r *Recorder) Recent(limit int) []Activity {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}

	start := len(r.entries) - limit
	out := make([]Activity, limit)
	copy(out, r.entries[start:])
	return out
}

// Count returns the number of recorded activities.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

var activityCounter atomic.Int64

func generateID() string {
	n := activityCounter.Add(1)
	return fmt.Sprintf("%s-%d", time.Now().Format("20060102150405"), n)
}

// ═══════════════════════════════════════════════════════════════════════════
// Prometheus Metrics
// ═══════════════════════════════════════════════════════════════════════════

// ─── Session Metrics ────────────────────────────────────────────────────────

// Logins counts login attempts by result (ok, rejected).
var Logins = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pointmoney",
	Subsystem: "auth",
	Name:      "logins_total",
	Help:      "Login attempts by result.",
}, []string{"result"})

// Registrations counts new worker accounts.
var Registrations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pointmoney",
	Subsystem: "auth",
	Name:      "registrations_total",
	Help:      "Worker accounts created through registration.",
})

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// PointAdjustments counts ledger entries by type (add, subtract).
var PointAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pointmoney",
	Subsystem: "ledger",
	Name:      "adjustments_total",
	Help:      "Point adjustments recorded in the ledger by type.",
}, []string{"type"})

// PointsMoved sums adjusted points by type.
var PointsMoved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pointmoney",
	Subsystem: "ledger",
	Name:      "points_total",
	Help:      "Points granted or deducted by type.",
}, []string{"type"})

// ─── Withdrawal Metrics ─────────────────────────────────────────────────────

// WithdrawalTransitions counts requests entering each status.
var WithdrawalTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pointmoney",
	Subsystem: "withdrawal",
	Name:      "transitions_total",
	Help:      "Withdrawal requests entering each status.",
}, []string{"status"})

// PendingWithdrawals tracks the number of pending requests.
var PendingWithdrawals = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "pointmoney",
	Subsystem: "withdrawal",
	Name:      "pending",
	Help:      "Withdrawal requests awaiting review.",
})

// ─── Storage Metrics ────────────────────────────────────────────────────────

// StorageOperations counts adapter calls by op (get, set, remove).
var StorageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pointmoney",
	Subsystem: "storage",
	Name:      "operations_total",
	Help:      "Persistent storage operations by op.",
}, []string{"op"})

// StorageFailures counts swallowed adapter failures by op.
var StorageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pointmoney",
	Subsystem: "storage",
	Name:      "failures_total",
	Help:      "Persistent storage failures swallowed by the adapter, by op.",
}, []string{"op"})
