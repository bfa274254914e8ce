// Package actions implements the use-cases on top of the three registries.
//
// The registries accept any well-formed call. Everything a user can get
// wrong is checked here: who is logged in and with which role, amounts,
// profile completeness and upload limits. Each call is recorded in the
// activity log whether it succeeds or not.
package actions

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pointmoney/pointmoney/internal/app/auth"
	"github.com/pointmoney/pointmoney/internal/app/ledger"
	"github.com/pointmoney/pointmoney/internal/app/withdrawal"
	"github.com/pointmoney/pointmoney/internal/domain"
	"github.com/pointmoney/pointmoney/internal/infra/observability"
)

// Service wires the registries into use-cases.
type Service struct {
	users       *auth.Registry
	creds       *auth.Credentials
	ledger      *ledger.Ledger
	withdrawals *withdrawal.Registry
	recorder    *observability.Recorder
	log         zerolog.Logger
	now         func() time.Time

	// adjustMu serializes balance read, balance write and ledger append.
	adjustMu sync.Mutex
}

// New creates the use-case service. rec may be nil.
func New(
	users *auth.Registry,
	creds *auth.Credentials,
	led *ledger.Ledger,
	wd *withdrawal.Registry,
	rec *observability.Recorder,
	log zerolog.Logger,
) *Service {
	return &Service{
		users:       users,
		creds:       creds,
		ledger:      led,
		withdrawals: wd,
		recorder:    rec,
		log:         log.With().Str("component", "actions").Logger(),
		now:         time.Now,
	}
}

// ─── Session ────────────────────────────────────────────────────────────────

// Login verifies the credential and starts a session. A failed login
// touches no registry.
func (s *Service) Login(loginID, password string) (u domain.User, err error) {
	done := s.track("login", loginID, nil)
	defer func() { done(err) }()

	if !s.creds.Verify(loginID, password) {
		observability.Logins.WithLabelValues("rejected").Inc()
		return domain.User{}, domain.ErrInvalidCredentials
	}
	found, ok := s.users.FindByLoginID(loginID)
	if !ok {
		observability.Logins.WithLabelValues("rejected").Inc()
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, loginID)
	}
	u, ok = s.users.Login(found.ID)
	if !ok {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, found.ID)
	}
	observability.Logins.WithLabelValues("ok").Inc()
	return u, nil
}

// RegisterInput is a new worker account.
type RegisterInput struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// Register creates a worker account and logs it in.
func (s *Service) Register(in RegisterInput) (u domain.User, err error) {
	done := s.track("register", in.LoginID, nil)
	defer func() { done(err) }()

	if err := validateRegistration(in); err != nil {
		return domain.User{}, err
	}
	if _, taken := s.users.FindByLoginID(in.LoginID); taken || s.creds.Has(in.LoginID) {
		return domain.User{}, domain.Invalid(domain.ErrLoginIDTaken, "login id already in use")
	}

	user := domain.User{
		ID:       in.LoginID,
		LoginID:  in.LoginID,
		Name:     in.Name,
		Email:    in.Email,
		Role:     domain.RoleWorker,
		Status:   domain.StatusActive,
		JoinedAt: s.now().UTC().Format(time.RFC3339),
	}
	if _, ok := s.users.AddUser(user); !ok {
		return domain.User{}, domain.Invalid(domain.ErrLoginIDTaken, "login id already in use")
	}
	s.creds.Add(in.LoginID, in.Password)
	observability.Registrations.Inc()

	u, _ = s.users.Login(user.ID)
	s.log.Info().Str("user_id", u.ID).Msg("worker registered")
	return u, nil
}

// Logout ends the session.
func (s *Service) Logout() {
	done := s.track("logout", s.actorID(), nil)
	s.users.Logout()
	done(nil)
}

// Current returns the logged-in user.
func (s *Service) Current() (domain.User, error) {
	u, ok := s.users.Current()
	if !ok {
		return domain.User{}, domain.ErrNotAuthenticated
	}
	return u, nil
}

// requireRole returns the logged-in user if it has role.
func (s *Service) requireRole(role domain.Role) (domain.User, error) {
	u, err := s.Current()
	if err != nil {
		return domain.User{}, err
	}
	if u.Role != role {
		return domain.User{}, fmt.Errorf("%w: requires %s", domain.ErrForbidden, role)
	}
	return u, nil
}

func (s *Service) actorID() string {
	if u, ok := s.users.Current(); ok {
		return u.ID
	}
	return ""
}

// track starts an activity record and returns its completion func.
func (s *Service) track(op, actor string, attrs map[string]string) func(error) {
	a := s.recorder.Start(op, actor, attrs)
	return func(err error) {
		s.recorder.Finish(a, err)
		if err != nil {
			s.log.Info().Str("op", op).Str("actor", actor).Err(err).Msg("request rejected")
		}
	}
}

// Activity returns the most recent recorded calls. Admin only.
func (s *Service) Activity(limit int) ([]observability.Activity, error) {
	if _, err := s.requireRole(domain.RoleAdmin); err != nil {
		return nil, err
	}
	if s.recorder == nil {
		return []observability.Activity{}, nil
	}
	return s.recorder.Recent(limit), nil
}

// ─── Operator Commands ──────────────────────────────────────────────────────

// ClearLedger empties the transaction history. User balances are kept.
func (s *Service) ClearLedger() {
	done := s.track("clear_ledger", s.actorID(), nil)
	s.ledger.ClearTransactions()
	done(nil)
}

// ClearWithdrawals empties the withdrawal registry.
func (s *Service) ClearWithdrawals() {
	done := s.track("clear_withdrawals", s.actorID(), nil)
	s.withdrawals.ClearRequests()
	done(nil)
}
