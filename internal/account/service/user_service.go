package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/stellarhive/account-service/internal/account/domain"
	"github.com/stellarhive/account-service/internal/account/dto"
	apperrors "github.com/stellarhive/account-service/internal/errors"
	"github.com/stellarhive/account-service/internal/mailer"
)

// UserService owns the account lifecycle and the request authorization
// contracts built on top of the token codec. Email delivery is best-effort:
// failures are logged and never surfaced to the caller.
type UserService struct {
	repo   domain.UserRepository
	tokens TokenIssuer
	mailer mailer.Mailer
	log    *slog.Logger
}

func NewUserService(repo domain.UserRepository, tokens TokenIssuer, m mailer.Mailer, log *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
		mailer: m,
		log:    log,
	}
}

// Register creates an inactive account and sends the verification email.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	email := strings.ToLower(input.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrEmailAlreadyInUse
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hashed,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendVerificationEmail(ctx, user)

	return user, nil
}

// CreateUser is the administrative creation path; it may set the account
// flags directly.
func (s *UserService) CreateUser(ctx context.Context, input dto.AdminCreateInput) (*domain.User, error) {
	email := strings.ToLower(input.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrEmailAlreadyInUse
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hashed,
		IsActive:     input.IsActive,
		IsStaff:      input.IsStaff,
		IsSuperuser:  input.IsSuperuser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login exchanges credentials for an access/refresh token pair. An unknown
// email, an inactive account and a wrong password all fail identically so
// nothing can be learned by probing.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (accessToken, refreshToken string, err error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		return "", "", err
	}

	if user == nil || !user.IsActive || !VerifyPassword(input.Password, user.PasswordHash) {
		return "", "", apperrors.ErrInvalidCredentials
	}

	accessToken, err = s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.repo.Save(ctx, user); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// Refresh mints a new access token from a refresh token. The refresh token is
// not rotated; it stays valid until its own expiry.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyUserID(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperrors.ErrInvalidToken
	}

	return s.tokens.IssueAccessToken(user.ID)
}

// Authenticate resolves a bearer access token to an active account. Missing
// and inactive accounts are indistinguishable from a bad token.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	userID, err := s.tokens.VerifyUserID(accessToken, TokenTypeAccess)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperrors.ErrInvalidToken
	}

	return user, nil
}

// UserFromEmailToken resolves an email-action token to its account. Unlike
// the bearer path the activation state is not checked here; some email
// actions only make sense for inactive accounts.
func (s *UserService) UserFromEmailToken(ctx context.Context, token string) (*domain.User, error) {
	email, err := s.tokens.VerifyEmail(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrInvalidToken
	}

	return user, nil
}

// UpdateProfile applies the present fields of the patch. Password, activation
// and role flags are not reachable through this path.
func (s *UserService) UpdateProfile(ctx context.Context, user *domain.User, input dto.UpdateUserInput) (*domain.User, error) {
	if input.Email != "" {
		email := strings.ToLower(input.Email)
		if email != user.Email {
			existing, err := s.repo.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperrors.ErrEmailAlreadyInUse
			}
		}
		user.Email = email
	}
	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ChangePassword replaces the hash after checking the old password. The
// new-equals-old case is rejected by input validation before this runs.
func (s *UserService) ChangePassword(ctx context.Context, user *domain.User, input dto.UpdatePasswordInput) error {
	if !VerifyPassword(input.OldPassword, user.PasswordHash) {
		return apperrors.ErrIncorrectPassword
	}

	hashed, err := HashPassword(input.NewPassword1)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed

	return s.repo.Save(ctx, user)
}

// ResetPassword sets a new password for an account resolved from an
// email-action token.
func (s *UserService) ResetPassword(ctx context.Context, user *domain.User, input dto.ResetPasswordInput) error {
	if !user.IsActive {
		return apperrors.ErrInactiveUser
	}

	hashed, err := HashPassword(input.NewPassword1)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed

	return s.repo.Save(ctx, user)
}

// VerifyEmail flips is_active exactly once; a second valid attempt is Gone.
func (s *UserService) VerifyEmail(ctx context.Context, user *domain.User) error {
	if user.IsActive {
		return apperrors.ErrAlreadyVerified
	}

	user.IsActive = true
	if err := s.repo.Save(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendWelcome(ctx, user.Email, user.FirstName); err != nil {
		s.log.ErrorContext(ctx, "failed to send welcome email", "email", user.Email, "error", err)
	}

	return nil
}

// RequestRemoval emails a deletion-confirmation link; nothing is deleted yet.
func (s *UserService) RequestRemoval(ctx context.Context, user *domain.User) {
	token, err := s.tokens.IssueEmailToken(user.Email)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to issue email token", "email", user.Email, "error", err)
		return
	}
	if err := s.mailer.SendAccountRemoval(ctx, user.Email, user.FirstName, token); err != nil {
		s.log.ErrorContext(ctx, "failed to send account removal email", "email", user.Email, "error", err)
	}
}

// ConfirmRemoval hard-deletes the account; the id and email are immediately
// free for reuse.
func (s *UserService) ConfirmRemoval(ctx context.Context, user *domain.User) error {
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return err
	}

	if err := s.mailer.SendAccountRemoved(ctx, user.Email, user.FirstName); err != nil {
		s.log.ErrorContext(ctx, "failed to send account removed email", "email", user.Email, "error", err)
	}

	return nil
}

func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}
	if user.IsActive {
		return apperrors.ErrAlreadyVerified
	}

	s.sendVerificationEmail(ctx, user)

	return nil
}

func (s *UserService) RecoverPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	token, err := s.tokens.IssueEmailToken(user.Email)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to issue email token", "email", user.Email, "error", err)
		return nil
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.FirstName, token); err != nil {
		s.log.ErrorContext(ctx, "failed to send password reset email", "email", user.Email, "error", err)
	}

	return nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, input dto.UpdateUserInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.UpdateProfile(ctx, user, input)
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, user.ID)
}

func (s *UserService) sendVerificationEmail(ctx context.Context, user *domain.User) {
	token, err := s.tokens.IssueEmailToken(user.Email)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to issue email token", "email", user.Email, "error", err)
		return
	}
	if err := s.mailer.SendVerification(ctx, user.Email, user.FirstName, token); err != nil {
		s.log.ErrorContext(ctx, "failed to send verification email", "email", user.Email, "error", err)
	}
}
