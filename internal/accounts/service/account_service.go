package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gymsuite/gymsuite-backend/internal/accounts/domain"
	"github.com/gymsuite/gymsuite-backend/internal/accounts/repository"
	"github.com/gymsuite/gymsuite-backend/internal/observability/metrics"
)

type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// GoogleVerifier resolves a Google ID token to its verified email.
type GoogleVerifier interface {
	VerifiedEmail(ctx context.Context, idToken string) (string, error)
}

type AccountService struct {
	repo     repository.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	google   GoogleVerifier
	resetTTL time.Duration
	now      func() time.Time
}

func NewAccountService(repo repository.Repository, hasher PasswordHasher, tokens TokenIssuer, resetTTL time.Duration) *AccountService {
	return &AccountService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// WithGoogleVerifier makes Google signups prove ownership of the email with
// a verified ID token.
func (s *AccountService) WithGoogleVerifier(v GoogleVerifier) *AccountService {
	s.google = v
	return s
}

func (s *AccountService) Signup(ctx context.Context, req domain.CreateUserRequest) (err error) {
	defer func() { metrics.AccountOperationsTotal.WithLabelValues("signup", metrics.Result(err)).Inc() }()

	email := domain.NormalizeEmail(req.Email)
	user := &domain.User{
		UserID: uuid.New().String(),
		Email:  email,
	}

	if req.IsGoogleUser {
		if s.google != nil {
			verified, err := s.google.VerifiedEmail(ctx, req.IDToken)
			if err != nil || domain.NormalizeEmail(verified) != email {
				return domain.ErrGoogleTokenInvalid
			}
		}
		user.IsGoogleUser = true
	} else {
		if req.Password == "" {
			return domain.ErrPasswordRequired
		}
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.Name = strings.TrimSpace(req.Name)
		user.Password = hash
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("user_id", user.UserID).Bool("google", user.IsGoogleUser).Msg("account created")
	return nil
}

func (s *AccountService) Signin(ctx context.Context, email, password string) (res *domain.SignInResult, err error) {
	defer func() { metrics.AccountOperationsTotal.WithLabelValues("signin", metrics.Result(err)).Inc() }()

	user, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user.IsGoogleUser {
		return nil, domain.ErrGoogleAccount
	}

	ok, err := s.hasher.Compare(user.Password, password)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.UserID, user.Email)
	if err != nil {
		return nil, err
	}

	return &domain.SignInResult{Token: token, Name: user.Name}, nil
}

// RequestPasswordReset opens a reset window and returns its token. Google
// accounts have no password to reset.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (reset *domain.PasswordReset, err error) {
	defer func() { metrics.AccountOperationsTotal.WithLabelValues("forget_password", metrics.Result(err)).Inc() }()

	email = domain.NormalizeEmail(email)
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.IsGoogleUser {
		return nil, domain.ErrGoogleAccount
	}

	reset = &domain.PasswordReset{
		Token:  uuid.New().String(),
		Expiry: s.now().Add(s.resetTTL),
	}
	if err := s.repo.SetResetToken(ctx, email, reset.Token, reset.Expiry.UnixMilli()); err != nil {
		return nil, err
	}
	return reset, nil
}

func (s *AccountService) CompletePasswordReset(ctx context.Context, email, token, newPassword string) (err error) {
	defer func() { metrics.AccountOperationsTotal.WithLabelValues("reset_password", metrics.Result(err)).Inc() }()

	if newPassword == "" {
		return domain.ErrPasswordRequired
	}

	email = domain.NormalizeEmail(email)
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsGoogleUser {
		return domain.ErrGoogleAccount
	}
	// The store re-checks token and expiry in the same write that sets the hash.
	if token == "" || user.ResetToken != token || !user.HasPendingReset(s.now()) {
		return domain.ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.CompletePasswordReset(ctx, email, token, hash, s.now().UnixMilli())
}

func (s *AccountService) UpdateProfile(ctx context.Context, email string, update domain.ProfileUpdate) (user *domain.User, err error) {
	defer func() { metrics.AccountOperationsTotal.WithLabelValues("update_profile", metrics.Result(err)).Inc() }()

	email = domain.NormalizeEmail(email)
	update.PasswordHash = nil
	if update.Password != nil {
		if *update.Password == "" {
			return nil, domain.ErrPasswordRequired
		}
		current, err := s.repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if current.IsGoogleUser {
			return nil, domain.ErrGoogleAccount
		}
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		update.PasswordHash = &hash
		update.Password = nil
	}

	return s.repo.UpdateProfile(ctx, email, update)
}

func (s *AccountService) UpdateCRMSettings(ctx context.Context, email string, creds domain.CRMCredentials) (user *domain.User, err error) {
	defer func() { metrics.AccountOperationsTotal.WithLabelValues("update_crm", metrics.Result(err)).Inc() }()

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("hash CRM password: %w", err)
	}
	creds.PasswordHash = hash
	creds.Password = ""

	return s.repo.UpdateCRMCredentials(ctx, domain.NormalizeEmail(email), creds)
}

// GetUser returns nil without error when no account matches.
func (s *AccountService) GetUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SweepExpiredResets closes every reset window that has already expired.
func (s *AccountService) SweepExpiredResets(ctx context.Context) (int, error) {
	n, err := s.repo.ClearExpiredResetTokens(ctx, s.now().UnixMilli())
	if n > 0 {
		metrics.ResetTokensSweptTotal.Add(float64(n))
	}
	return n, err
}
