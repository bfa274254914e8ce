// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring and depends on nothing.
package domain

import "time"

// ─── User Types ─────────────────────────────────────────────────────────────

// Role separates workers, who earn and withdraw points, from administrators,
// who grant points and resolve withdrawals.
type Role string

const (
	RoleWorker Role = "worker"
	RoleAdmin  Role = "admin"
)

// UserStatus is the roster status shown on the worker list.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// AccountType is the Japanese bank account kind.
type AccountType string

const (
	AccountOrdinary AccountType = "普通"
	AccountCurrent  AccountType = "当座"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	return t == AccountOrdinary || t == AccountCurrent
}

// BankInfo is the bank transfer destination. All fields are required together.
type BankInfo struct {
	BankName      string      `json:"bankName"`
	BranchName    string      `json:"branchName"`
	AccountType   AccountType `json:"accountType"`
	AccountNumber string      `json:"accountNumber"`
	AccountHolder string      `json:"accountHolder"`
}

// Complete reports whether every field of the bank tuple is filled in.
func (b *BankInfo) Complete() bool {
	return b != nil &&
		b.BankName != "" &&
		b.BranchName != "" &&
		b.AccountType != "" &&
		b.AccountNumber != "" &&
		b.AccountHolder != ""
}

// UserProfile holds contact and payout details. Free-form strings are
// validated by the caller layer, not here.
type UserProfile struct {
	PhoneNumber   string    `json:"phoneNumber,omitempty"`
	Address       string    `json:"address,omitempty"`
	BirthDate     string    `json:"birthDate,omitempty"`
	BankInfo      *BankInfo `json:"bankInfo,omitempty"`
	CryptoAddress string    `json:"cryptoAddress,omitempty"`
	PayPayID      string    `json:"payPayId,omitempty"`
}

// Clone returns a deep copy so snapshots never alias a live profile.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	if p.BankInfo != nil {
		b := *p.BankInfo
		c.BankInfo = &b
	}
	return &c
}

// User is a worker or administrator account.
type User struct {
	ID          string       `json:"id"`
	LoginID     string       `json:"loginId"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	Points      int64        `json:"points"`
	TotalEarned int64        `json:"totalEarned"`
	Status      UserStatus   `json:"status,omitempty"`
	JoinedAt    string       `json:"joinedAt,omitempty"`
	AvatarURL   string       `json:"avatarUrl,omitempty"`
	Profile     *UserProfile `json:"profile,omitempty"`
	LastLogin   *time.Time   `json:"lastLogin,omitempty"`
}

// IsAdmin reports whether the user may grant points and resolve withdrawals.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsWorker reports whether the user earns and withdraws points.
func (u User) IsWorker() bool { return u.Role == RoleWorker }

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	c := u
	c.Profile = u.Profile.Clone()
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return c
}

// ProfileUpdate is a shallow, top-level partial update of a user. A nil field
// is left untouched; a non-nil Profile replaces the nested object wholesale.
type ProfileUpdate struct {
	Name    *string      `json:"name,omitempty"`
	Email   *string      `json:"email,omitempty"`
	LoginID *string      `json:"loginId,omitempty"`
	Profile *UserProfile `json:"profile,omitempty"`
}

// Apply merges the update into u and returns the result.
func (p ProfileUpdate) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.LoginID != nil {
		u.LoginID = *p.LoginID
	}
	if p.Profile != nil {
		u.Profile = p.Profile.Clone()
	}
	return u
}
