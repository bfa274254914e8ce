package actions

import (
	"github.com/pointmoney/pointmoney/internal/app/ledger"
	"github.com/pointmoney/pointmoney/internal/domain"
)

// RecentLimit caps the transaction lists on the dashboards.
const RecentLimit = 5

// WorkerDashboard is the logged-in worker's home view.
type WorkerDashboard struct {
	User               domain.User               `json:"user"`
	Points             int64                     `json:"points"`
	TotalEarned        int64                     `json:"totalEarned"`
	Weekly             ledger.WeeklySummary      `json:"weekly"`
	RecentTransactions []domain.PointTransaction `json:"recentTransactions"`
	PendingWithdrawals int                       `json:"pendingWithdrawals"`
}

// AdminDashboard is the administrator's home view.
type AdminDashboard struct {
	ActiveWorkers      int                       `json:"activeWorkers"`
	Issued             ledger.IssuedTotals       `json:"issued"`
	PendingWithdrawals int                       `json:"pendingWithdrawals"`
	RecentTransactions []domain.PointTransaction `json:"recentTransactions"`
	Workers            []domain.User             `json:"workers"`
}

// WorkerDashboard builds the view for the logged-in worker.
func (s *Service) WorkerDashboard() (WorkerDashboard, error) {
	u, err := s.requireRole(domain.RoleWorker)
	if err != nil {
		return WorkerDashboard{}, err
	}

	pending := 0
	for _, req := range s.withdrawals.RequestsByWorker(u.ID) {
		if req.Status == domain.WithdrawalPending {
			pending++
		}
	}
	return WorkerDashboard{
		User:               u,
		Points:             u.Points,
		TotalEarned:        u.TotalEarned,
		Weekly:             s.ledger.WeeklySummary(u.ID, s.now()),
		RecentTransactions: head(s.ledger.ByWorker(u.ID), RecentLimit),
		PendingWithdrawals: pending,
	}, nil
}

// AdminDashboard builds the view for the logged-in admin.
func (s *Service) AdminDashboard() (AdminDashboard, error) {
	if _, err := s.requireRole(domain.RoleAdmin); err != nil {
		return AdminDashboard{}, err
	}

	workers := s.users.Workers()
	active := 0
	for _, w := range workers {
		if w.Status != domain.StatusInactive {
			active++
		}
	}
	return AdminDashboard{
		ActiveWorkers:      active,
		Issued:             s.ledger.IssuedTotals(s.now()),
		PendingWithdrawals: len(s.withdrawals.PendingRequests()),
		RecentTransactions: head(s.ledger.Transactions(), RecentLimit),
		Workers:            workers,
	}, nil
}

func head[T any](xs []T, n int) []T {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}
