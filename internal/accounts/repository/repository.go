package repository

import (
	"context"

	"github.com/gymsuite/gymsuite-backend/internal/accounts/domain"
)

// Repository is the account store. Every implementation keys accounts by
// email and guarantees email uniqueness on Create.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	SetResetToken(ctx context.Context, email, token string, expiryMillis int64) error
	// CompletePasswordReset stores passwordHash and removes the reset pair in
	// one write, only if the stored token equals token and has not expired
	// at nowMillis.
	CompletePasswordReset(ctx context.Context, email, token, passwordHash string, nowMillis int64) error
	UpdateProfile(ctx context.Context, email string, update domain.ProfileUpdate) (*domain.User, error)
	UpdateCRMCredentials(ctx context.Context, email string, creds domain.CRMCredentials) (*domain.User, error)
	ClearExpiredResetTokens(ctx context.Context, nowMillis int64) (int, error)
	Ping(ctx context.Context) error
}

func applyProfile(u *domain.User, p domain.ProfileUpdate) {
	if p.ClubwiseURL != nil {
		u.ClubwiseURL = *p.ClubwiseURL
	}
	if p.BusinessName != nil {
		u.BusinessName = *p.BusinessName
	}
	if p.Logo != nil {
		u.Logo = *p.Logo
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.PasswordHash != nil {
		u.Password = *p.PasswordHash
	}
}

func applyCRM(u *domain.User, c domain.CRMCredentials) {
	u.CRMAPIKey = c.APIKey
	u.CRMUsername = c.Username
	u.CRMPassword = c.PasswordHash
}
