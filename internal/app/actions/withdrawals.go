package actions

import (
	"fmt"
	"strconv"

	"github.com/pointmoney/pointmoney/internal/domain"
)

// SubmitInput is a worker's withdrawal request.
type SubmitInput struct {
	Amount        int64                `json:"amount"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
}

// SubmitWithdrawal files a request for the logged-in worker. The payout
// fields for the chosen method are copied out of the profile, so later
// profile edits do not change where a pending request pays out.
func (s *Service) SubmitWithdrawal(in SubmitInput) (req domain.WithdrawalRequest, err error) {
	done := s.track("submit_withdrawal", s.actorID(), map[string]string{
		"method": string(in.PaymentMethod),
		"amount": strconv.FormatInt(in.Amount, 10),
	})
	defer func() { done(err) }()

	worker, err := s.requireRole(domain.RoleWorker)
	if err != nil {
		return domain.WithdrawalRequest{}, err
	}
	if in.Amount < domain.MinWithdrawalAmount || in.Amount > domain.MaxWithdrawalAmount {
		return domain.WithdrawalRequest{}, domain.Invalid(domain.ErrValidation,
			fmt.Sprintf("amount must be between %d and %d points", domain.MinWithdrawalAmount, domain.MaxWithdrawalAmount))
	}
	if !in.PaymentMethod.Valid() {
		return domain.WithdrawalRequest{}, domain.Invalid(domain.ErrValidation, "payment method must be bank, crypto or paypay")
	}

	details, err := payoutDetails(worker.Profile, in.PaymentMethod)
	if err != nil {
		return domain.WithdrawalRequest{}, err
	}

	req = s.withdrawals.AddRequest(domain.NewWithdrawal{
		WorkerID:       worker.ID,
		WorkerName:     worker.Name,
		Amount:         in.Amount,
		PaymentMethod:  in.PaymentMethod,
		PaymentDetails: details,
	})
	s.log.Info().Str("request_id", req.ID).Str("worker_id", worker.ID).Int64("amount", in.Amount).Msg("withdrawal requested")
	return req, nil
}

// payoutDetails snapshots the profile fields the method needs.
func payoutDetails(p *domain.UserProfile, method domain.PaymentMethod) (domain.PaymentDetails, error) {
	if p == nil {
		return domain.PaymentDetails{}, domain.Invalid(domain.ErrIncompleteProfile, "profile is not set up")
	}
	switch method {
	case domain.PayBank:
		if !p.BankInfo.Complete() {
			return domain.PaymentDetails{}, domain.Invalid(domain.ErrIncompleteProfile, "bank account details are incomplete")
		}
		b := *p.BankInfo
		return domain.PaymentDetails{BankInfo: &b}, nil
	case domain.PayCrypto:
		if p.CryptoAddress == "" {
			return domain.PaymentDetails{}, domain.Invalid(domain.ErrIncompleteProfile, "crypto address is not set")
		}
		return domain.PaymentDetails{CryptoAddress: p.CryptoAddress}, nil
	case domain.PayPayPay:
		if p.PayPayID == "" {
			return domain.PaymentDetails{}, domain.Invalid(domain.ErrIncompleteProfile, "PayPay id is not set")
		}
		return domain.PaymentDetails{PayPayID: p.PayPayID}, nil
	}
	return domain.PaymentDetails{}, domain.Invalid(domain.ErrValidation, "unknown payment method")
}

// ResolveInput is an administrator's review of a request.
type ResolveInput struct {
	ID      string                  `json:"id"`
	Status  domain.WithdrawalStatus `json:"status"`
	Comment string                  `json:"comment"`
}

// ResolveWithdrawal records a review as the logged-in admin. Requests cannot
// be sent back to pending; any other transition is accepted, including out
// of a terminal status.
func (s *Service) ResolveWithdrawal(in ResolveInput) (req domain.WithdrawalRequest, err error) {
	done := s.track("resolve_withdrawal", s.actorID(), map[string]string{
		"request_id": in.ID,
		"status":     string(in.Status),
	})
	defer func() { done(err) }()

	admin, err := s.requireRole(domain.RoleAdmin)
	if err != nil {
		return domain.WithdrawalRequest{}, err
	}
	if !in.Status.Valid() || in.Status == domain.WithdrawalPending {
		return domain.WithdrawalRequest{}, domain.Invalid(domain.ErrInvalidStatus,
			fmt.Sprintf("cannot resolve a request to %q", in.Status))
	}

	req, ok := s.withdrawals.UpdateStatus(in.ID, in.Status, admin.ID, admin.Name, in.Comment)
	if !ok {
		return domain.WithdrawalRequest{}, fmt.Errorf("%w: %s", domain.ErrRequestNotFound, in.ID)
	}
	return req, nil
}

// Withdrawals lists requests: pending ones for an admin, their own for a
// worker.
func (s *Service) Withdrawals() ([]domain.WithdrawalRequest, error) {
	u, err := s.Current()
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() {
		return s.withdrawals.PendingRequests(), nil
	}
	return s.withdrawals.RequestsByWorker(u.ID), nil
}
