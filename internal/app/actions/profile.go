package actions

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/pointmoney/pointmoney/internal/domain"
)

// MaxImageBytes is the largest accepted avatar or icon upload.
const MaxImageBytes = 2 * 1024 * 1024

var (
	loginIDPattern       = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	phonePattern         = regexp.MustCompile(`^[0-9-]+$`)
	birthDatePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	accountNumberPattern = regexp.MustCompile(`^\d{7}$`)
)

// ─── Validation ─────────────────────────────────────────────────────────────

func validateLoginID(id string) error {
	if len(id) < 4 {
		return domain.Invalid(domain.ErrValidation, "login id must be at least 4 characters")
	}
	if !loginIDPattern.MatchString(id) {
		return domain.Invalid(domain.ErrValidation, "login id may only contain letters, digits, hyphens and underscores")
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.Invalid(domain.ErrValidation, "email address is not valid")
	}
	return nil
}

func validateRegistration(in RegisterInput) error {
	if err := validateLoginID(in.LoginID); err != nil {
		return err
	}
	if len(in.Password) < 6 {
		return domain.Invalid(domain.ErrValidation, "password must be at least 6 characters")
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid(domain.ErrValidation, "name is required")
	}
	return validateEmail(in.Email)
}

// validateProfile checks a replacement profile. Contact fields are
// required; bank details are optional but must be complete when given.
func validateProfile(p *domain.UserProfile) error {
	if !phonePattern.MatchString(p.PhoneNumber) {
		return domain.Invalid(domain.ErrValidation, "phone number may only contain digits and hyphens")
	}
	if strings.TrimSpace(p.Address) == "" {
		return domain.Invalid(domain.ErrValidation, "address is required")
	}
	if !birthDatePattern.MatchString(p.BirthDate) {
		return domain.Invalid(domain.ErrValidation, "birth date must be YYYY-MM-DD")
	}
	if b := p.BankInfo; b != nil {
		switch {
		case b.BankName == "":
			return domain.Invalid(domain.ErrValidation, "bank name is required")
		case b.BranchName == "":
			return domain.Invalid(domain.ErrValidation, "branch name is required")
		case !b.AccountType.Valid():
			return domain.Invalid(domain.ErrValidation, "account type must be 普通 or 当座")
		case !accountNumberPattern.MatchString(b.AccountNumber):
			return domain.Invalid(domain.ErrValidation, "account number must be 7 digits")
		case b.AccountHolder == "":
			return domain.Invalid(domain.ErrValidation, "account holder is required")
		}
	}
	return nil
}

// ─── Profile ────────────────────────────────────────────────────────────────

// UpdateProfile validates and applies a partial update to the logged-in
// user. A changed login id moves the user's credential with it.
func (s *Service) UpdateProfile(upd domain.ProfileUpdate) (u domain.User, err error) {
	done := s.track("update_profile", s.actorID(), nil)
	defer func() { done(err) }()

	cur, err := s.Current()
	if err != nil {
		return domain.User{}, err
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return domain.User{}, domain.Invalid(domain.ErrValidation, "name is required")
	}
	if upd.Email != nil {
		if err := validateEmail(*upd.Email); err != nil {
			return domain.User{}, err
		}
	}
	if upd.Profile != nil {
		if err := validateProfile(upd.Profile); err != nil {
			return domain.User{}, err
		}
	}

	renamed := upd.LoginID != nil && *upd.LoginID != cur.LoginID
	if renamed {
		if err := validateLoginID(*upd.LoginID); err != nil {
			return domain.User{}, err
		}
		if _, taken := s.users.FindByLoginID(*upd.LoginID); taken || s.creds.Has(*upd.LoginID) {
			return domain.User{}, domain.Invalid(domain.ErrLoginIDTaken, "login id already in use")
		}
	}

	u, ok := s.users.UpdateProfile(upd)
	if !ok {
		return domain.User{}, domain.ErrNotAuthenticated
	}
	if renamed && !s.creds.Rename(cur.LoginID, u.LoginID) {
		s.log.Warn().Str("user_id", u.ID).Msg("login id changed but no credential to move")
	}
	return u, nil
}

// ImageUpload is an encoded image handed over by an upload widget.
type ImageUpload struct {
	Size      int64  `json:"size"`
	MediaType string `json:"mediaType"`
	Data      string `json:"data"`
}

func validateImage(img ImageUpload) error {
	if img.Size > MaxImageBytes {
		return domain.Invalid(domain.ErrInvalidImage, "image must be 2MB or smaller")
	}
	if !strings.HasPrefix(img.MediaType, "image/") {
		return domain.Invalid(domain.ErrInvalidImage, "file is not an image")
	}
	if img.Data == "" {
		return domain.Invalid(domain.ErrInvalidImage, "image data is empty")
	}
	return nil
}

// UploadAvatar sets the logged-in user's avatar.
func (s *Service) UploadAvatar(img ImageUpload) (u domain.User, err error) {
	done := s.track("upload_avatar", s.actorID(), map[string]string{"media_type": img.MediaType})
	defer func() { done(err) }()

	if _, err := s.Current(); err != nil {
		return domain.User{}, err
	}
	if err := validateImage(img); err != nil {
		return domain.User{}, err
	}
	u, ok := s.users.UpdateAvatar(img.Data)
	if !ok {
		return domain.User{}, domain.ErrNotAuthenticated
	}
	return u, nil
}

// UploadIcon sets the dashboard icon. Any logged-in user may change it.
func (s *Service) UploadIcon(img ImageUpload) (err error) {
	done := s.track("upload_icon", s.actorID(), map[string]string{"media_type": img.MediaType})
	defer func() { done(err) }()

	if _, err := s.Current(); err != nil {
		return err
	}
	if err := validateImage(img); err != nil {
		return err
	}
	s.users.UpdateIcon(img.Data)
	return nil
}

// Icon returns the dashboard icon, empty when unset.
func (s *Service) Icon() string {
	return s.users.Icon()
}

