package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymsuite/gymsuite-backend/internal/accounts/domain"
)

func setupRedisRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisRepository(client), mr
}

func strPtr(s string) *string { return &s }

func TestRedisRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupRedisRepo(t)
	ctx := context.Background()

	user := &domain.User{UserID: "u-1", Email: "a@x.com", Name: "Ann", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "hash", got.Password)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := repo.Create(ctx, &domain.User{UserID: "u-2", Email: "a@x.com"})
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@x.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestRedisRepository_ConcurrentCreateSingleWinner(t *testing.T) {
	repo, _ := setupRedisRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Create(ctx, &domain.User{UserID: "u", Email: "race@x.com"})
		}()
	}
	wg.Wait()
	close(results)

	created := 0
	for err := range results {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	}
	assert.Equal(t, 1, created)
}

func TestRedisRepository_PasswordReset(t *testing.T) {
	repo, mr := setupRedisRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.User{UserID: "u-1", Email: "a@x.com", Password: "old"}))

	require.NoError(t, repo.SetResetToken(ctx, "a@x.com", "tok", 2000))
	score, err := mr.ZScore(resetExpirySet, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, float64(2000), score)

	t.Run("wrong token is rejected", func(t *testing.T) {
		err := repo.CompletePasswordReset(ctx, "a@x.com", "other", "new", 1000)
		assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		err := repo.CompletePasswordReset(ctx, "a@x.com", "tok", "new", 2001)
		assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
	})

	t.Run("valid token resets once", func(t *testing.T) {
		require.NoError(t, repo.CompletePasswordReset(ctx, "a@x.com", "tok", "new", 2000))

		got, err := repo.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "new", got.Password)
		assert.Empty(t, got.ResetToken)
		assert.Zero(t, got.ResetTokenExpiry)

		err = repo.CompletePasswordReset(ctx, "a@x.com", "tok", "newer", 1000)
		assert.ErrorIs(t, err, domain.ErrInvalidResetToken)

		members, err := mr.ZMembers(resetExpirySet)
		if err == nil {
			assert.NotContains(t, members, "a@x.com")
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		err := repo.SetResetToken(ctx, "nobody@x.com", "tok", 1)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestRedisRepository_UpdateProfile(t *testing.T) {
	repo, _ := setupRedisRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.User{UserID: "u-1", Email: "a@x.com", Password: "hash", Phone: "111"}))

	got, err := repo.UpdateProfile(ctx, "a@x.com", domain.ProfileUpdate{
		BusinessName: strPtr("Iron Gym"),
		FirstName:    strPtr("Ann"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Iron Gym", got.BusinessName)
	assert.Equal(t, "Ann", got.FirstName)
	assert.Equal(t, "111", got.Phone, "unset fields are left alone")
	assert.Equal(t, "hash", got.Password)

	_, err = repo.UpdateProfile(ctx, "nobody@x.com", domain.ProfileUpdate{Logo: strPtr("l")})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRedisRepository_UpdateCRMCredentials(t *testing.T) {
	repo, _ := setupRedisRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.User{UserID: "u-1", Email: "a@x.com"}))

	got, err := repo.UpdateCRMCredentials(ctx, "a@x.com", domain.CRMCredentials{
		APIKey: "key", Username: "crm-user", PasswordHash: "crm-hash",
	})
	require.NoError(t, err)
	assert.Equal(t, "key", got.CRMAPIKey)
	assert.Equal(t, "crm-user", got.CRMUsername)
	assert.Equal(t, "crm-hash", got.CRMPassword)
}

func TestRedisRepository_ClearExpiredResetTokens(t *testing.T) {
	repo, _ := setupRedisRepo(t)
	ctx := context.Background()
	for _, email := range []string{"old@x.com", "fresh@x.com"} {
		require.NoError(t, repo.Create(ctx, &domain.User{UserID: email, Email: email}))
	}
	require.NoError(t, repo.SetResetToken(ctx, "old@x.com", "t1", 1000))
	require.NoError(t, repo.SetResetToken(ctx, "fresh@x.com", "t2", 5000))

	n, err := repo.ClearExpiredResetTokens(ctx, 3000)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	old, err := repo.GetByEmail(ctx, "old@x.com")
	require.NoError(t, err)
	assert.Empty(t, old.ResetToken)

	fresh, err := repo.GetByEmail(ctx, "fresh@x.com")
	require.NoError(t, err)
	assert.Equal(t, "t2", fresh.ResetToken)
}
