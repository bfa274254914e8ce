package actions

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pointmoney/pointmoney/internal/app/auth"
	"github.com/pointmoney/pointmoney/internal/app/ledger"
	"github.com/pointmoney/pointmoney/internal/app/withdrawal"
	"github.com/pointmoney/pointmoney/internal/domain"
	"github.com/pointmoney/pointmoney/internal/infra/observability"
	"github.com/pointmoney/pointmoney/internal/infra/storage"
)

var fixedNow = time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc         *Service
	users       *auth.Registry
	creds       *auth.Credentials
	ledger      *ledger.Ledger
	withdrawals *withdrawal.Registry
	recorder    *observability.Recorder
}

func newTestService(t *testing.T) fixture {
	t.Helper()
	store := storage.New(storage.NewMemoryStore(), zerolog.Nop())
	f := fixture{
		users:       auth.NewRegistry(store, zerolog.Nop()),
		creds:       auth.NewCredentials(),
		ledger:      ledger.New(store, zerolog.Nop()),
		withdrawals: withdrawal.NewRegistry(store, zerolog.Nop()),
		recorder:    observability.NewRecorder(observability.DefaultRecorderConfig()),
	}
	f.svc = New(f.users, f.creds, f.ledger, f.withdrawals, f.recorder, zerolog.Nop())
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func (f fixture) login(t *testing.T, id string) {
	t.Helper()
	if _, err := f.svc.Login(id, id); err != nil {
		t.Fatalf("Login(%s) error: %v", id, err)
	}
}

func completeProfile() *domain.UserProfile {
	return &domain.UserProfile{
		PhoneNumber: "090-1234-5678",
		Address:     "東京都渋谷区1-2-3",
		BirthDate:   "1990-04-01",
		BankInfo: &domain.BankInfo{
			BankName:      "みずほ銀行",
			BranchName:    "渋谷支店",
			AccountType:   domain.AccountOrdinary,
			AccountNumber: "1234567",
			AccountHolder: "テスト タロウ",
		},
		CryptoAddress: "0xabc",
		PayPayID:      "worker-pay",
	}
}

// ─── Session ────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	f := newTestService(t)

	u, err := f.svc.Login("kkkk1111", "kkkk1111")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if !u.IsAdmin() || u.LastLogin == nil {
		t.Errorf("Login() = %+v", u)
	}
}

func TestLogin_FailuresDoNotMutate(t *testing.T) {
	tests := []struct {
		name     string
		loginID  string
		password string
		wantErr  error
	}{
		{"unknown login id", "nobody", "whatever", domain.ErrInvalidCredentials},
		{"wrong password", "kkkk2222", "wrong!", domain.ErrInvalidCredentials},
		{"credential without user", "orphan", "orphan-pw", domain.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestService(t)
			f.creds.Add("orphan", "orphan-pw")
			before := f.users.Snapshot()

			_, err := f.svc.Login(tt.loginID, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(before, f.users.Snapshot()) {
				t.Error("failed login mutated the user registry")
			}
		})
	}
}

func TestRegister(t *testing.T) {
	f := newTestService(t)

	u, err := f.svc.Register(RegisterInput{LoginID: "new_worker", Password: "secret1", Name: "新人", Email: "new@example.com"})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if u.ID != "new_worker" || u.Role != domain.RoleWorker || u.Points != 0 || u.Status != domain.StatusActive {
		t.Errorf("Register() = %+v", u)
	}
	if cur, _ := f.svc.Current(); cur.ID != "new_worker" {
		t.Errorf("registered user not logged in, current = %+v", cur)
	}

	f.svc.Logout()
	if _, err := f.svc.Login("new_worker", "secret1"); err != nil {
		t.Errorf("Login after Register error: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	valid := RegisterInput{LoginID: "abcd", Password: "secret", Name: "n", Email: "a@b.co"}
	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		wantErr error
	}{
		{"short login id", func(in *RegisterInput) { in.LoginID = "abc" }, domain.ErrValidation},
		{"bad login id chars", func(in *RegisterInput) { in.LoginID = "ab cd" }, domain.ErrValidation},
		{"short password", func(in *RegisterInput) { in.Password = "12345" }, domain.ErrValidation},
		{"empty name", func(in *RegisterInput) { in.Name = "  " }, domain.ErrValidation},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, domain.ErrValidation},
		{"taken login id", func(in *RegisterInput) { in.LoginID = "kkkk2222" }, domain.ErrLoginIDTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestService(t)
			in := valid
			tt.mutate(&in)
			before := f.users.Snapshot()

			_, err := f.svc.Register(in)
			if !errors.Is(err, tt.wantErr) || !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(before, f.users.Snapshot()) {
				t.Error("rejected registration mutated the registry")
			}
		})
	}
}

// ─── Points ─────────────────────────────────────────────────────────────────

func TestAdjustPoints_EndToEnd(t *testing.T) {
	f := newTestService(t)
	f.login(t, "kkkk1111")

	adj, err := f.svc.AdjustPoints(AdjustInput{WorkerID: "kkkk2222", Amount: 500, Type: domain.TxAdd, Reason: "bonus"})
	if err != nil {
		t.Fatalf("AdjustPoints(add 500) error: %v", err)
	}
	if adj.Balance != 500 || adj.Transaction.AdminID != "kkkk1111" || adj.Transaction.WorkerName != "テストワーカー" {
		t.Errorf("AdjustPoints(add 500) = %+v", adj)
	}
	if w, _ := f.users.GetUser("kkkk2222"); w.Points != 500 {
		t.Errorf("balance = %d, want 500", w.Points)
	}
	if f.ledger.Len() != 1 || f.ledger.Balance("kkkk2222") != 500 {
		t.Errorf("ledger after grant: len=%d sum=%d", f.ledger.Len(), f.ledger.Balance("kkkk2222"))
	}

	if _, err := f.svc.AdjustPoints(AdjustInput{WorkerID: "kkkk2222", Amount: 200, Type: domain.TxSubtract, Reason: "correction"}); err != nil {
		t.Fatalf("AdjustPoints(subtract 200) error: %v", err)
	}
	w, _ := f.users.GetUser("kkkk2222")
	if w.Points != 300 || w.TotalEarned != 500 {
		t.Errorf("worker after deduction = %d points, %d earned; want 300, 500", w.Points, w.TotalEarned)
	}
	if f.ledger.Len() != 2 || f.ledger.Balance("kkkk2222") != 300 {
		t.Errorf("ledger after deduction: len=%d sum=%d", f.ledger.Len(), f.ledger.Balance("kkkk2222"))
	}
}

func TestAdjustPoints_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		in      AdjustInput
		wantErr error
	}{
		{"not logged in", "", AdjustInput{WorkerID: "kkkk2222", Amount: 10, Type: domain.TxAdd, Reason: "r"}, domain.ErrNotAuthenticated},
		{"worker actor", "kkkk2222", AdjustInput{WorkerID: "kkkk2222", Amount: 10, Type: domain.TxAdd, Reason: "r"}, domain.ErrForbidden},
		{"zero amount", "kkkk1111", AdjustInput{WorkerID: "kkkk2222", Amount: 0, Type: domain.TxAdd, Reason: "r"}, domain.ErrValidation},
		{"bad type", "kkkk1111", AdjustInput{WorkerID: "kkkk2222", Amount: 10, Type: "multiply", Reason: "r"}, domain.ErrValidation},
		{"no reason", "kkkk1111", AdjustInput{WorkerID: "kkkk2222", Amount: 10, Type: domain.TxAdd}, domain.ErrValidation},
		{"unknown worker", "kkkk1111", AdjustInput{WorkerID: "ghost", Amount: 10, Type: domain.TxAdd, Reason: "r"}, domain.ErrUserNotFound},
		{"admin target", "kkkk1111", AdjustInput{WorkerID: "kkkk1111", Amount: 10, Type: domain.TxAdd, Reason: "r"}, domain.ErrUserNotFound},
		{"overdraw", "kkkk1111", AdjustInput{WorkerID: "kkkk2222", Amount: 1, Type: domain.TxSubtract, Reason: "r"}, domain.ErrInsufficientPoints},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestService(t)
			if tt.actor != "" {
				f.login(t, tt.actor)
			}

			_, err := f.svc.AdjustPoints(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AdjustPoints() error = %v, want %v", err, tt.wantErr)
			}
			if f.ledger.Len() != 0 {
				t.Error("rejected adjustment reached the ledger")
			}
			if w, _ := f.users.GetUser("kkkk2222"); w.Points != 0 {
				t.Errorf("rejected adjustment changed balance to %d", w.Points)
			}
		})
	}
}

func TestAdjustPoints_ConcurrentKeepsBalanceAndLedgerInStep(t *testing.T) {
	f := newTestService(t)
	f.login(t, "kkkk1111")

	const grants = 200
	var wg sync.WaitGroup
	for i := 0; i < grants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.AdjustPoints(AdjustInput{WorkerID: "kkkk2222", Amount: 10, Type: domain.TxAdd, Reason: "bonus"}); err != nil {
				t.Errorf("AdjustPoints(add 10) error: %v", err)
			}
		}()
	}
	wg.Wait()

	w, _ := f.users.GetUser("kkkk2222")
	if w.Points != grants*10 || f.ledger.Balance("kkkk2222") != grants*10 {
		t.Fatalf("after grants: balance=%d ledger sum=%d, want %d", w.Points, f.ledger.Balance("kkkk2222"), grants*10)
	}

	// Twice as many deductions as the balance covers: exactly half succeed.
	var (
		mu       sync.Mutex
		refused  int
		accepted int
	)
	for i := 0; i < 2*grants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.AdjustPoints(AdjustInput{WorkerID: "kkkk2222", Amount: 10, Type: domain.TxSubtract, Reason: "payout"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, domain.ErrInsufficientPoints):
				refused++
			default:
				t.Errorf("AdjustPoints(subtract 10) error: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted != grants || refused != grants {
		t.Errorf("deductions accepted=%d refused=%d, want %d each", accepted, refused, grants)
	}
	w, _ = f.users.GetUser("kkkk2222")
	if w.Points != 0 || f.ledger.Balance("kkkk2222") != 0 {
		t.Errorf("after deductions: balance=%d ledger sum=%d, want 0", w.Points, f.ledger.Balance("kkkk2222"))
	}
	if f.ledger.Len() != 2*grants {
		t.Errorf("ledger entries = %d, want %d", f.ledger.Len(), 2*grants)
	}
}

func TestTransactions_RoleScoped(t *testing.T) {
	f := newTestService(t)
	f.users.AddUser(domain.User{ID: "w2", LoginID: "w2", Name: "other", Role: domain.RoleWorker})
	f.login(t, "kkkk1111")
	f.svc.AdjustPoints(AdjustInput{WorkerID: "kkkk2222", Amount: 100, Type: domain.TxAdd, Reason: "a"})
	f.svc.AdjustPoints(AdjustInput{WorkerID: "w2", Amount: 100, Type: domain.TxAdd, Reason: "b"})

	all, err := f.svc.Transactions()
	if err != nil || len(all) != 2 {
		t.Fatalf("admin Transactions() = %d, %v", len(all), err)
	}

	f.svc.Logout()
	f.login(t, "kkkk2222")
	own, err := f.svc.Transactions()
	if err != nil || len(own) != 1 || own[0].WorkerID != "kkkk2222" {
		t.Errorf("worker Transactions() = %+v, %v", own, err)
	}
	if _, err := f.svc.Workers(); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("worker Workers() error = %v, want ErrForbidden", err)
	}
}

// ─── Withdrawals ────────────────────────────────────────────────────────────

func TestSubmitWithdrawal_SnapshotsProfile(t *testing.T) {
	f := newTestService(t)
	f.login(t, "kkkk2222")
	if _, err := f.svc.UpdateProfile(domain.ProfileUpdate{Profile: completeProfile()}); err != nil {
		t.Fatalf("UpdateProfile() error: %v", err)
	}

	req, err := f.svc.SubmitWithdrawal(SubmitInput{Amount: 5000, PaymentMethod: domain.PayBank})
	if err != nil {
		t.Fatalf("SubmitWithdrawal() error: %v", err)
	}
	if req.Status != domain.WithdrawalPending || req.PaymentDetails.BankInfo == nil || req.PaymentDetails.PayPayID != "" {
		t.Errorf("SubmitWithdrawal() = %+v", req)
	}

	changed := completeProfile()
	changed.BankInfo.AccountNumber = "7654321"
	f.svc.UpdateProfile(domain.ProfileUpdate{Profile: changed})

	stored, _ := f.withdrawals.Get(req.ID)
	if stored.PaymentDetails.BankInfo.AccountNumber != "1234567" {
		t.Error("profile edit changed a pending request's payout destination")
	}
}

func TestSubmitWithdrawal_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		profile *domain.UserProfile
		in      SubmitInput
		wantErr error
	}{
		{"below minimum", completeProfile(), SubmitInput{Amount: 999, PaymentMethod: domain.PayBank}, domain.ErrValidation},
		{"above maximum", completeProfile(), SubmitInput{Amount: 1_000_001, PaymentMethod: domain.PayBank}, domain.ErrValidation},
		{"unknown method", completeProfile(), SubmitInput{Amount: 1000, PaymentMethod: "cash"}, domain.ErrValidation},
		{"no profile", nil, SubmitInput{Amount: 1000, PaymentMethod: domain.PayPayPay}, domain.ErrIncompleteProfile},
		{"no bank info", &domain.UserProfile{PhoneNumber: "0", Address: "a", BirthDate: "2000-01-01"}, SubmitInput{Amount: 1000, PaymentMethod: domain.PayBank}, domain.ErrIncompleteProfile},
		{"no crypto address", &domain.UserProfile{PhoneNumber: "0", Address: "a", BirthDate: "2000-01-01"}, SubmitInput{Amount: 1000, PaymentMethod: domain.PayCrypto}, domain.ErrIncompleteProfile},
		{"no paypay id", &domain.UserProfile{PhoneNumber: "0", Address: "a", BirthDate: "2000-01-01"}, SubmitInput{Amount: 1000, PaymentMethod: domain.PayPayPay}, domain.ErrIncompleteProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestService(t)
			f.login(t, "kkkk2222")
			if tt.profile != nil {
				if _, err := f.svc.UpdateProfile(domain.ProfileUpdate{Profile: tt.profile}); err != nil {
					t.Fatalf("UpdateProfile() error: %v", err)
				}
			}

			_, err := f.svc.SubmitWithdrawal(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SubmitWithdrawal() error = %v, want %v", err, tt.wantErr)
			}
			if len(f.withdrawals.Requests()) != 0 {
				t.Error("rejected submission reached the registry")
			}
		})
	}
}

func TestSubmitWithdrawal_AdminForbidden(t *testing.T) {
	f := newTestService(t)
	f.login(t, "kkkk1111")
	if _, err := f.svc.SubmitWithdrawal(SubmitInput{Amount: 1000, PaymentMethod: domain.PayBank}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("admin SubmitWithdrawal() error = %v, want ErrForbidden", err)
	}
}

func TestResolveWithdrawal(t *testing.T) {
	f := newTestService(t)
	f.login(t, "kkkk2222")
	f.svc.UpdateProfile(domain.ProfileUpdate{Profile: completeProfile()})
	req, _ := f.svc.SubmitWithdrawal(SubmitInput{Amount: 2000, PaymentMethod: domain.PayPayPay})
	f.svc.Logout()
	f.login(t, "kkkk1111")

	pending, _ := f.svc.Withdrawals()
	if len(pending) != 1 {
		t.Fatalf("admin Withdrawals() = %d, want 1 pending", len(pending))
	}

	got, err := f.svc.ResolveWithdrawal(ResolveInput{ID: req.ID, Status: domain.WithdrawalCompleted, Comment: "送金済み"})
	if err != nil {
		t.Fatalf("ResolveWithdrawal() error: %v", err)
	}
	if got.ProcessedBy == nil || got.ProcessedBy.ID != "kkkk1111" || got.AdminComment != "送金済み" {
		t.Errorf("ResolveWithdrawal() = %+v", got)
	}
	if pending, _ := f.svc.Withdrawals(); len(pending) != 0 {
		t.Error("completed request still listed as pending")
	}

	if _, err := f.svc.ResolveWithdrawal(ResolveInput{ID: req.ID, Status: domain.WithdrawalPending}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("resolve to pending error = %v, want ErrInvalidStatus", err)
	}
	if _, err := f.svc.ResolveWithdrawal(ResolveInput{ID: "missing", Status: domain.WithdrawalRejected}); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Errorf("resolve unknown id error = %v, want ErrRequestNotFound", err)
	}
	if _, err := f.svc.ResolveWithdrawal(ResolveInput{ID: req.ID, Status: domain.WithdrawalRejected}); err != nil {
		t.Errorf("re-resolving a terminal request error: %v", err)
	}
}

// ─── Profile ────────────────────────────────────────────────────────────────

func TestUpdateProfile_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.UserProfile)
	}{
		{"letters in phone", func(p *domain.UserProfile) { p.PhoneNumber = "090-abcd" }},
		{"empty address", func(p *domain.UserProfile) { p.Address = "" }},
		{"bad birth date", func(p *domain.UserProfile) { p.BirthDate = "1990/04/01" }},
		{"short account number", func(p *domain.UserProfile) { p.BankInfo.AccountNumber = "123456" }},
		{"unknown account type", func(p *domain.UserProfile) { p.BankInfo.AccountType = "savings" }},
		{"missing holder", func(p *domain.UserProfile) { p.BankInfo.AccountHolder = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestService(t)
			f.login(t, "kkkk2222")
			p := completeProfile()
			tt.mutate(p)

			if _, err := f.svc.UpdateProfile(domain.ProfileUpdate{Profile: p}); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("UpdateProfile() error = %v, want ErrValidation", err)
			}
			if u, _ := f.svc.Current(); u.Profile != nil {
				t.Error("invalid profile was stored")
			}
		})
	}
}

func TestUpdateProfile_LoginIDMovesCredential(t *testing.T) {
	f := newTestService(t)
	f.login(t, "kkkk2222")
	newID := "worker-renamed"

	if _, err := f.svc.UpdateProfile(domain.ProfileUpdate{LoginID: &newID}); err != nil {
		t.Fatalf("UpdateProfile(loginId) error: %v", err)
	}
	f.svc.Logout()
	if _, err := f.svc.Login(newID, "kkkk2222"); err != nil {
		t.Errorf("Login with renamed id error: %v", err)
	}

	taken := "kkkk1111"
	if _, err := f.svc.UpdateProfile(domain.ProfileUpdate{LoginID: &taken}); !errors.Is(err, domain.ErrLoginIDTaken) {
		t.Errorf("rename onto taken id error = %v, want ErrLoginIDTaken", err)
	}
}

func TestUploads(t *testing.T) {
	tests := []struct {
		name    string
		img     ImageUpload
		wantErr bool
	}{
		{"png", ImageUpload{Size: 1024, MediaType: "image/png", Data: "data:image/png;base64,AA"}, false},
		{"exactly 2MB", ImageUpload{Size: MaxImageBytes, MediaType: "image/jpeg", Data: "x"}, false},
		{"too large", ImageUpload{Size: MaxImageBytes + 1, MediaType: "image/png", Data: "x"}, true},
		{"not an image", ImageUpload{Size: 10, MediaType: "application/pdf", Data: "x"}, true},
		{"empty data", ImageUpload{Size: 10, MediaType: "image/png"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestService(t)
			f.login(t, "kkkk2222")

			_, err := f.svc.UploadAvatar(tt.img)
			if tt.wantErr != (err != nil) {
				t.Fatalf("UploadAvatar() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, domain.ErrInvalidImage) {
				t.Errorf("UploadAvatar() error = %v, want ErrInvalidImage", err)
			}
			iconErr := f.svc.UploadIcon(tt.img)
			if tt.wantErr != (iconErr != nil) {
				t.Fatalf("UploadIcon() error = %v, wantErr %v", iconErr, tt.wantErr)
			}
			if !tt.wantErr && f.svc.Icon() != tt.img.Data {
				t.Errorf("Icon() = %q, want %q", f.svc.Icon(), tt.img.Data)
			}
		})
	}
}

// ─── Dashboards & Activity ──────────────────────────────────────────────────

func TestDashboards(t *testing.T) {
	f := newTestService(t)
	f.login(t, "kkkk1111")
	for i := 0; i < 7; i++ {
		f.svc.AdjustPoints(AdjustInput{WorkerID: "kkkk2222", Amount: 100, Type: domain.TxAdd, Reason: "daily"})
	}

	admin, err := f.svc.AdminDashboard()
	if err != nil {
		t.Fatalf("AdminDashboard() error: %v", err)
	}
	if admin.ActiveWorkers != 1 || admin.Issued.AllTime != 700 || len(admin.RecentTransactions) != RecentLimit {
		t.Errorf("AdminDashboard() = %+v", admin)
	}
	if _, err := f.svc.WorkerDashboard(); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("admin WorkerDashboard() error = %v, want ErrForbidden", err)
	}

	f.svc.Logout()
	f.login(t, "kkkk2222")
	w, err := f.svc.WorkerDashboard()
	if err != nil {
		t.Fatalf("WorkerDashboard() error: %v", err)
	}
	if w.Points != 700 || w.TotalEarned != 700 || len(w.RecentTransactions) != RecentLimit || len(w.Weekly.Daily) != 7 {
		t.Errorf("WorkerDashboard() = %+v", w)
	}
}

func TestActivity_RecordsOutcomes(t *testing.T) {
	f := newTestService(t)
	f.svc.Login("nobody", "x")
	f.login(t, "kkkk1111")

	acts, err := f.svc.Activity(10)
	if err != nil {
		t.Fatalf("Activity() error: %v", err)
	}
	if len(acts) != 2 {
		t.Fatalf("len(Activity) = %d, want 2", len(acts))
	}
	if acts[0].Outcome != observability.OutcomeRejected || !strings.Contains(acts[0].Attrs["error"], "invalid") {
		t.Errorf("failed login activity = %+v", acts[0])
	}
	if acts[1].Operation != "login" || acts[1].Outcome != observability.OutcomeOK {
		t.Errorf("login activity = %+v", acts[1])
	}
}

func TestClearCommands(t *testing.T) {
	f := newTestService(t)
	f.login(t, "kkkk1111")
	f.svc.AdjustPoints(AdjustInput{WorkerID: "kkkk2222", Amount: 100, Type: domain.TxAdd, Reason: "r"})
	f.withdrawals.AddRequest(domain.NewWithdrawal{WorkerID: "kkkk2222", Amount: 1000, PaymentMethod: domain.PayBank})

	f.svc.ClearLedger()
	f.svc.ClearWithdrawals()

	if f.ledger.Len() != 0 || len(f.withdrawals.Requests()) != 0 {
		t.Error("clear commands left entries behind")
	}
	if w, _ := f.users.GetUser("kkkk2222"); w.Points != 100 {
		t.Errorf("ClearLedger touched balance: %d", w.Points)
	}
}
