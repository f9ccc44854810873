package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymsuite/gymsuite-backend/internal/accounts/domain"
	"github.com/gymsuite/gymsuite-backend/internal/accounts/repository"
	"github.com/gymsuite/gymsuite-backend/internal/auth"
)

type fakeGoogle struct {
	email string
	err   error
}

func (f fakeGoogle) VerifiedEmail(context.Context, string) (string, error) {
	return f.email, f.err
}

func setupAccountService(t *testing.T) (*AccountService, *auth.TokenIssuer, *time.Time) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	svc := NewAccountService(repository.NewRedisRepository(client), NewBcryptHasher(4), tokens, time.Hour)

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, tokens, &now
}

func TestAccountService_SignupAndSignin(t *testing.T) {
	svc, tokens, _ := setupAccountService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, domain.CreateUserRequest{
		Email:    "Ann@Example.com",
		Name:     " Ann ",
		Password: "s3cret",
	}))

	user, err := svc.GetUser(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ann", user.Name)
	assert.NotEqual(t, "s3cret", user.Password)
	assert.NotEmpty(t, user.UserID)

	res, err := svc.Signin(ctx, "ANN@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Ann", res.Name)

	claims, err := tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)

	t.Run("duplicate signup", func(t *testing.T) {
		err := svc.Signup(ctx, domain.CreateUserRequest{Email: "ann@example.com", Password: "x"})
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Signin(ctx, "ann@example.com", "nope")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Signin(ctx, "bob@example.com", "s3cret")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("password is required for email signup", func(t *testing.T) {
		err := svc.Signup(ctx, domain.CreateUserRequest{Email: "nopass@example.com"})
		assert.ErrorIs(t, err, domain.ErrPasswordRequired)
	})
}

func TestAccountService_GoogleSignup(t *testing.T) {
	svc, _, _ := setupAccountService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, domain.CreateUserRequest{
		Email:        "g@example.com",
		Name:         "ignored",
		Password:     "ignored",
		IsGoogleUser: true,
	}))

	user, err := svc.GetUser(ctx, "g@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsGoogleUser)
	assert.Empty(t, user.Password)
	assert.Empty(t, user.Name)

	_, err = svc.Signin(ctx, "g@example.com", "anything")
	assert.ErrorIs(t, err, domain.ErrGoogleAccount)

	t.Run("verifier rejects a token for another email", func(t *testing.T) {
		svc.WithGoogleVerifier(fakeGoogle{email: "other@example.com"})
		err := svc.Signup(ctx, domain.CreateUserRequest{Email: "h@example.com", IsGoogleUser: true, IDToken: "t"})
		assert.ErrorIs(t, err, domain.ErrGoogleTokenInvalid)
	})

	t.Run("verifier error", func(t *testing.T) {
		svc.WithGoogleVerifier(fakeGoogle{err: errors.New("expired")})
		err := svc.Signup(ctx, domain.CreateUserRequest{Email: "h@example.com", IsGoogleUser: true, IDToken: "t"})
		assert.ErrorIs(t, err, domain.ErrGoogleTokenInvalid)
	})

	t.Run("verified email matches", func(t *testing.T) {
		svc.WithGoogleVerifier(fakeGoogle{email: "H@example.com"})
		err := svc.Signup(ctx, domain.CreateUserRequest{Email: "h@example.com", IsGoogleUser: true, IDToken: "t"})
		assert.NoError(t, err)
	})
}

func TestAccountService_PasswordReset(t *testing.T) {
	svc, _, now := setupAccountService(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, domain.CreateUserRequest{Email: "a@x.com", Password: "old"}))

	_, err := svc.RequestPasswordReset(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	reset, err := svc.RequestPasswordReset(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, reset.Token)
	assert.Equal(t, now.Add(time.Hour), reset.Expiry)

	assert.ErrorIs(t, svc.CompletePasswordReset(ctx, "a@x.com", reset.Token, ""), domain.ErrPasswordRequired)
	assert.ErrorIs(t, svc.CompletePasswordReset(ctx, "a@x.com", "", "new"), domain.ErrInvalidResetToken)
	assert.ErrorIs(t, svc.CompletePasswordReset(ctx, "a@x.com", "wrong", "new"), domain.ErrInvalidResetToken)
	assert.ErrorIs(t, svc.CompletePasswordReset(ctx, "nobody@x.com", reset.Token, "new"), domain.ErrUserNotFound)

	require.NoError(t, svc.CompletePasswordReset(ctx, "a@x.com", reset.Token, "new"))
	assert.ErrorIs(t, svc.CompletePasswordReset(ctx, "a@x.com", reset.Token, "newer"), domain.ErrInvalidResetToken,
		"a token can be used once")

	_, err = svc.Signin(ctx, "a@x.com", "old")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Signin(ctx, "a@x.com", "new")
	assert.NoError(t, err)

	t.Run("expired window", func(t *testing.T) {
		reset, err := svc.RequestPasswordReset(ctx, "a@x.com")
		require.NoError(t, err)

		later := now.Add(2 * time.Hour)
		svc.now = func() time.Time { return later }
		defer func() { svc.now = func() time.Time { return *now } }()

		err = svc.CompletePasswordReset(ctx, "a@x.com", reset.Token, "newest")
		assert.ErrorIs(t, err, domain.ErrInvalidResetToken)

		n, err := svc.SweepExpiredResets(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestAccountService_UpdateProfile(t *testing.T) {
	svc, _, _ := setupAccountService(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, domain.CreateUserRequest{Email: "a@x.com", Password: "old"}))

	name := "Iron Gym"
	pw := "changed"
	user, err := svc.UpdateProfile(ctx, "A@x.com", domain.ProfileUpdate{BusinessName: &name, Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, "Iron Gym", user.BusinessName)
	assert.NotEqual(t, "changed", user.Password)

	_, err = svc.Signin(ctx, "a@x.com", "changed")
	assert.NoError(t, err)

	empty := ""
	_, err = svc.UpdateProfile(ctx, "a@x.com", domain.ProfileUpdate{Password: &empty})
	assert.ErrorIs(t, err, domain.ErrPasswordRequired)

	_, err = svc.UpdateProfile(ctx, "nobody@x.com", domain.ProfileUpdate{BusinessName: &name})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAccountService_GoogleAccountNeverStoresPassword(t *testing.T) {
	svc, _, _ := setupAccountService(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, domain.CreateUserRequest{Email: "g@x.com", IsGoogleUser: true}))

	pw := "newpw"
	_, err := svc.UpdateProfile(ctx, "g@x.com", domain.ProfileUpdate{Password: &pw})
	assert.ErrorIs(t, err, domain.ErrGoogleAccount)

	_, err = svc.RequestPasswordReset(ctx, "g@x.com")
	assert.ErrorIs(t, err, domain.ErrGoogleAccount)

	err = svc.CompletePasswordReset(ctx, "g@x.com", "any-token", "newpw")
	assert.ErrorIs(t, err, domain.ErrGoogleAccount)

	phone := "0400 000 000"
	user, err := svc.UpdateProfile(ctx, "g@x.com", domain.ProfileUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, user.Phone)

	user, err = svc.GetUser(ctx, "g@x.com")
	require.NoError(t, err)
	assert.True(t, user.IsGoogleUser)
	assert.Empty(t, user.Password)
	assert.Empty(t, user.ResetToken)
}

func TestAccountService_UpdateCRMSettings(t *testing.T) {
	svc, _, _ := setupAccountService(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, domain.CreateUserRequest{Email: "a@x.com", Password: "pw"}))

	user, err := svc.UpdateCRMSettings(ctx, "a@x.com", domain.CRMCredentials{
		APIKey: "key", Username: "crm", Password: "crm-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "key", user.CRMAPIKey)
	assert.Equal(t, "crm", user.CRMUsername)
	assert.NotEqual(t, "crm-pass", user.CRMPassword)

	ok, err := NewBcryptHasher(4).Compare(user.CRMPassword, "crm-pass")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccountService_GetUserMissing(t *testing.T) {
	svc, _, _ := setupAccountService(t)

	user, err := svc.GetUser(context.Background(), "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}
