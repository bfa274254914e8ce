package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors carry no infrastructure dependency.

var (
	// Storage errors
	ErrKeyNotFound        = errors.New("key not found")
	ErrStorageUnavailable = errors.New("storage backend unavailable")

	// Lookup errors
	ErrUserNotFound    = errors.New("user not found")
	ErrRequestNotFound = errors.New("withdrawal request not found")

	// Session errors
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid login id or password")
	ErrForbidden          = errors.New("operation not permitted for this role")
	ErrInvalidToken       = errors.New("invalid session token")

	// Validation errors. Every specific validation failure wraps ErrValidation.
	ErrValidation         = errors.New("validation failed")
	ErrLoginIDTaken       = errors.New("login id already in use")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrIncompleteProfile  = errors.New("payout details missing from profile")
	ErrInvalidImage       = errors.New("invalid image upload")
	ErrInvalidStatus      = errors.New("invalid withdrawal status")
)

// ValidationError is a rejected input. It matches ErrValidation and its Kind
// under errors.Is.
type ValidationError struct {
	Kind   error
	Reason string
}

// Invalid returns a ValidationError of the given kind. Pass ErrValidation
// when no narrower kind applies.
func Invalid(kind error, reason string) error {
	return &ValidationError{Kind: kind, Reason: reason}
}

func (e *ValidationError) Error() string { return e.Reason }

// Unwrap exposes both the kind and ErrValidation.
func (e *ValidationError) Unwrap() []error {
	return []error{e.Kind, ErrValidation}
}
