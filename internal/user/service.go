package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
	"github.com/wichananm65/eco-shop-backend/internal/logger"
	"github.com/wichananm65/eco-shop-backend/internal/notification"
	"github.com/wichananm65/eco-shop-backend/internal/otp"
)

const totpIssuer = "EcoShop"

type Service struct {
	repo   Repository
	codes  *otp.Service
	sender notification.Sender
}

func NewService(repo Repository, codes *otp.Service, sender notification.Sender) *Service {
	return &Service{repo: repo, codes: codes, sender: sender}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Register(ctx context.Context, user User) (User, error) {
	user.Email = normalizeEmail(user.Email)
	if _, err := s.repo.GetByEmail(ctx, user.Email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	user.Password = string(hashed)
	user.Role = RoleCustomer
	user.TwoFactorEnabled = false
	user.TOTPSecret = ""
	user.CreatedAt = now
	user.UpdatedAt = now
	return s.repo.Create(ctx, user)
}

// EnsureAdmin makes sure an admin account exists for email. An existing
// account is promoted and keeps its password; otherwise one is created.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role == RoleAdmin {
			return existing, nil
		}
		existing.Role = RoleAdmin
		existing.Password = ""
		existing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		return s.repo.Update(ctx, existing.ID, existing)
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	admin, err := s.Register(ctx, User{Email: email, Password: password, FirstName: "Admin"})
	if err != nil {
		return User{}, err
	}
	admin.Role = RoleAdmin
	admin.Password = ""
	return s.repo.Update(ctx, admin.ID, admin)
}

// Authenticate checks the password and, for accounts with two-factor enabled,
// the current TOTP code.
func (s *Service) Authenticate(ctx context.Context, email, password, code string) (User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	if err := checkSecondFactor(user, code); err != nil {
		return User{}, err
	}
	return user, nil
}

// RequestOTP emails a one-time sign-in code when the account exists. Unknown
// addresses and delivery problems are not reported to the caller.
func (s *Service) RequestOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	code, err := s.codes.Issue(ctx, user.Email)
	if err != nil {
		logger.Logger.Error().Err(err).Int("user_id", user.ID).Msg("failed to issue otp")
		return nil
	}
	if err := s.sender.Send(ctx, notification.OTPMessage(user.Email, code, s.codes.TTL())); err != nil {
		logger.Logger.Error().Err(err).Int("user_id", user.ID).Msg("failed to send otp email")
	}
	return nil
}

// LoginWithOTP consumes a previously emailed code. Two-factor still applies.
func (s *Service) LoginWithOTP(ctx context.Context, email, code, twoFactorCode string) (User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidOTP
		}
		return User{}, err
	}

	// check the second factor first so a missing TOTP code does not burn the
	// emailed one
	if err := checkSecondFactor(user, twoFactorCode); err != nil {
		return User{}, err
	}

	ok, err := s.codes.Verify(ctx, user.Email, code)
	if err != nil {
		return User{}, apperror.Storage(err)
	}
	if !ok {
		return User{}, ErrInvalidOTP
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id int, update ProfileUpdate) (User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if update.FirstName != nil {
		existing.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		existing.LastName = strings.TrimSpace(*update.LastName)
	}
	if update.Phone != nil {
		existing.Phone = strings.TrimSpace(*update.Phone)
	}

	newPassword := ""
	if update.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(update.CurrentPassword)) != nil {
			return User{}, apperror.Validation("current password is incorrect")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		newPassword = string(hashed)
	}
	existing.Password = newPassword
	existing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	return s.repo.Update(ctx, id, existing)
}

// SetupTwoFactor creates a new TOTP secret for the user. It only takes effect
// once EnableTwoFactor confirms a code generated from it.
func (s *Service) SetupTwoFactor(ctx context.Context, id int) (secret string, url string, err error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if user.TwoFactorEnabled {
		return "", "", apperror.Conflict("two-factor authentication is already enabled")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return "", "", err
	}

	user.TOTPSecret = key.Secret()
	user.Password = ""
	user.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if _, err := s.repo.Update(ctx, id, user); err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func (s *Service) EnableTwoFactor(ctx context.Context, id int, code string) (User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if user.TwoFactorEnabled {
		return User{}, apperror.Conflict("two-factor authentication is already enabled")
	}
	if user.TOTPSecret == "" {
		return User{}, apperror.Validation("two-factor setup has not been started")
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return User{}, ErrInvalidTwoFactorCode
	}

	user.TwoFactorEnabled = true
	user.Password = ""
	user.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Update(ctx, id, user)
}

func (s *Service) DisableTwoFactor(ctx context.Context, id int, code string) (User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if !user.TwoFactorEnabled {
		return User{}, apperror.Validation("two-factor authentication is not enabled")
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return User{}, ErrInvalidTwoFactorCode
	}

	user.TwoFactorEnabled = false
	user.TOTPSecret = ""
	user.Password = ""
	user.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Update(ctx, id, user)
}

func checkSecondFactor(user User, code string) error {
	if !user.TwoFactorEnabled {
		return nil
	}
	if code == "" {
		return ErrTwoFactorRequired
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return ErrInvalidTwoFactorCode
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
