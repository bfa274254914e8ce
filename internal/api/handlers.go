package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pointmoney/pointmoney/internal/app/actions"
	"github.com/pointmoney/pointmoney/internal/domain"
)

// sessionResponse is returned by login and register.
type sessionResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// ─── Auth ───────────────────────────────────────────────────────────────────

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LoginID  string `json:"loginId"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := s.svc.Login(req.LoginID, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeSession(w, http.StatusOK, u)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req actions.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := s.svc.Register(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeSession(w, http.StatusCreated, u)
}

func (s *Server) writeSession(w http.ResponseWriter, status int, u domain.User) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error", "issue token: "+err.Error())
		return
	}
	writeJSON(w, status, sessionResponse{User: u, Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.svc.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// ─── Profile ────────────────────────────────────────────────────────────────

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionUser(r))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd domain.ProfileUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	u, err := s.svc.UpdateProfile(upd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	var img actions.ImageUpload
	if !decodeJSON(w, r, &img) {
		return
	}
	u, err := s.svc.UploadAvatar(img)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleGetIcon(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"icon": s.svc.Icon()})
}

func (s *Server) handleUploadIcon(w http.ResponseWriter, r *http.Request) {
	var img actions.ImageUpload
	if !decodeJSON(w, r, &img) {
		return
	}
	if err := s.svc.UploadIcon(img); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"icon": s.svc.Icon()})
}

// ─── Workers & Points ───────────────────────────────────────────────────────

func (s *Server) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := s.svc.Workers()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"workers": workers})
}

func (s *Server) handleGetWorker(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Worker(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleAdjustPoints(w http.ResponseWriter, r *http.Request) {
	var in actions.AdjustInput
	if !decodeJSON(w, r, &in) {
		return
	}
	adj, err := s.svc.AdjustPoints(in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, adj)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.svc.Transactions()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs})
}

// ─── Withdrawals ────────────────────────────────────────────────────────────

func (s *Server) handleListWithdrawals(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.svc.Withdrawals()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": reqs})
}

func (s *Server) handleSubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	var in actions.SubmitInput
	if !decodeJSON(w, r, &in) {
		return
	}
	req, err := s.svc.SubmitWithdrawal(in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleResolveWithdrawal(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status  domain.WithdrawalStatus `json:"status"`
		Comment string                  `json:"comment"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := s.svc.ResolveWithdrawal(actions.ResolveInput{
		ID:      chi.URLParam(r, "id"),
		Status:  body.Status,
		Comment: body.Comment,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// ─── Dashboards ─────────────────────────────────────────────────────────────

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var (
		view interface{}
		err  error
	)
	if sessionUser(r).IsAdmin() {
		view, err = s.svc.AdminDashboard()
	} else {
		view, err = s.svc.WorkerDashboard()
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request_error", "limit must be a positive integer")
			return
		}
		limit = n
	}
	acts, err := s.svc.Activity(limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"activity": acts})
}
