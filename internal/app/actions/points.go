package actions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pointmoney/pointmoney/internal/domain"
	"github.com/pointmoney/pointmoney/internal/infra/observability"
)

// AdjustInput is an administrator's grant or deduction.
type AdjustInput struct {
	WorkerID string                 `json:"workerId"`
	Amount   int64                  `json:"amount"`
	Type     domain.TransactionType `json:"type"`
	Reason   string                 `json:"reason"`
}

// Adjustment is the result of a grant or deduction.
type Adjustment struct {
	Transaction domain.PointTransaction `json:"transaction"`
	Balance     int64                   `json:"balance"`
}

// AdjustPoints grants or deducts a worker's points as the logged-in admin.
//
// The balance is written first and the ledger entry second. If the balance
// write misses (the worker vanished between the check and the write) no
// entry is appended and the miss is logged, so the ledger never records an
// adjustment the balance does not reflect. Adjustments run one at a time so
// concurrent grants cannot overwrite each other's balance.
func (s *Service) AdjustPoints(in AdjustInput) (adj Adjustment, err error) {
	done := s.track("adjust_points", s.actorID(), map[string]string{
		"worker_id": in.WorkerID,
		"type":      string(in.Type),
		"amount":    strconv.FormatInt(in.Amount, 10),
	})
	defer func() { done(err) }()

	admin, err := s.requireRole(domain.RoleAdmin)
	if err != nil {
		return Adjustment{}, err
	}
	if !in.Type.Valid() {
		return Adjustment{}, domain.Invalid(domain.ErrValidation, "type must be add or subtract")
	}
	if in.Amount <= 0 {
		return Adjustment{}, domain.Invalid(domain.ErrValidation, "amount must be a positive number of points")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return Adjustment{}, domain.Invalid(domain.ErrValidation, "reason is required")
	}

	s.adjustMu.Lock()
	defer s.adjustMu.Unlock()

	worker, ok := s.users.GetUser(in.WorkerID)
	if !ok || !worker.IsWorker() {
		return Adjustment{}, fmt.Errorf("%w: worker %s", domain.ErrUserNotFound, in.WorkerID)
	}

	balance := worker.Points + in.Amount
	if in.Type == domain.TxSubtract {
		balance = worker.Points - in.Amount
	}
	if balance < 0 {
		return Adjustment{}, domain.Invalid(domain.ErrInsufficientPoints,
			fmt.Sprintf("worker has %d points, cannot deduct %d", worker.Points, in.Amount))
	}

	updated, ok := s.users.UpdateUserPoints(worker.ID, balance)
	if !ok {
		s.log.Error().Str("worker_id", worker.ID).Int64("amount", in.Amount).
			Msg("balance update missed; ledger entry not recorded")
		return Adjustment{}, fmt.Errorf("%w: worker %s", domain.ErrUserNotFound, worker.ID)
	}

	tx := s.ledger.AddTransaction(domain.NewTransaction{
		WorkerID:   worker.ID,
		WorkerName: worker.Name,
		AdminID:    admin.ID,
		AdminName:  admin.Name,
		Amount:     in.Amount,
		Type:       in.Type,
		Reason:     in.Reason,
	})

	observability.PointAdjustments.WithLabelValues(string(in.Type)).Inc()
	observability.PointsMoved.WithLabelValues(string(in.Type)).Add(float64(in.Amount))
	s.log.Info().Str("worker_id", worker.ID).Str("admin_id", admin.ID).
		Str("type", string(in.Type)).Int64("amount", in.Amount).Int64("balance", updated.Points).
		Msg("points adjusted")

	return Adjustment{Transaction: tx, Balance: updated.Points}, nil
}

// Transactions lists the ledger: everything for an admin, their own
// entries for a worker.
func (s *Service) Transactions() ([]domain.PointTransaction, error) {
	u, err := s.Current()
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() {
		return s.ledger.Transactions(), nil
	}
	return s.ledger.ByWorker(u.ID), nil
}

// Workers returns the worker roster. Admin only.
func (s *Service) Workers() ([]domain.User, error) {
	if _, err := s.requireRole(domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.users.Workers(), nil
}

// Worker returns one worker. Admin only.
func (s *Service) Worker(id string) (domain.User, error) {
	if _, err := s.requireRole(domain.RoleAdmin); err != nil {
		return domain.User{}, err
	}
	u, ok := s.users.GetUser(id)
	if !ok || !u.IsWorker() {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	return u, nil
}
