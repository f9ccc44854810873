package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gymsuite/gymsuite-backend/internal/accounts/domain"
	"github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix  = "account:user:"        // account:user:{email} -> JSON document
	resetExpirySet = "account:reset:expiry" // zset of emails scored by reset expiry millis
	maxTxRetries   = 5
)

// userDoc is the stored form. It differs from domain.User only in that
// the secret fields are serialised.
type userDoc struct {
	UserID           string `json:"userId"`
	Email            string `json:"email"`
	Name             string `json:"name,omitempty"`
	Password         string `json:"password,omitempty"`
	IsGoogleUser     bool   `json:"isGoogleUser,omitempty"`
	ResetToken       string `json:"resetToken,omitempty"`
	ResetTokenExpiry int64  `json:"resetTokenExpiry,omitempty"`
	ClubwiseURL      string `json:"Clubwise_URL,omitempty"`
	BusinessName     string `json:"Business_name,omitempty"`
	Logo             string `json:"Logo,omitempty"`
	FirstName        string `json:"First_Name,omitempty"`
	LastName         string `json:"Last_Name,omitempty"`
	Phone            string `json:"phone,omitempty"`
	CRMAPIKey        string `json:"CRM_API_Key,omitempty"`
	CRMUsername      string `json:"CRM_Username,omitempty"`
	CRMPassword      string `json:"CRM_Password,omitempty"`
}

func toDoc(u *domain.User) userDoc {
	return userDoc(*u)
}

func fromDoc(d userDoc) *domain.User {
	u := domain.User(d)
	return &u
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) userKey(email string) string {
	return userKeyPrefix + email
}

func (r *RedisRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, r.client, email)
}

func (r *RedisRepository) get(ctx context.Context, c getter, email string) (*domain.User, error) {
	data, err := c.Get(ctx, r.userKey(email)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var d userDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return fromDoc(d), nil
}

func (r *RedisRepository) Create(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(toDoc(user))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.userKey(user.Email), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if !ok {
		return domain.ErrUserAlreadyExists
	}
	return nil
}

func (r *RedisRepository) SetResetToken(ctx context.Context, email, token string, expiryMillis int64) error {
	_, err := r.mutate(ctx, email, func(u *domain.User) error {
		u.ResetToken = token
		u.ResetTokenExpiry = expiryMillis
		return nil
	}, func(pipe redis.Pipeliner) {
		pipe.ZAdd(ctx, resetExpirySet, redis.Z{Score: float64(expiryMillis), Member: email})
	})
	return err
}

func (r *RedisRepository) CompletePasswordReset(ctx context.Context, email, token, passwordHash string, nowMillis int64) error {
	_, err := r.mutate(ctx, email, func(u *domain.User) error {
		if u.ResetToken == "" || u.ResetToken != token || u.ResetTokenExpiry < nowMillis {
			return domain.ErrInvalidResetToken
		}
		u.Password = passwordHash
		u.ResetToken = ""
		u.ResetTokenExpiry = 0
		return nil
	}, func(pipe redis.Pipeliner) {
		pipe.ZRem(ctx, resetExpirySet, email)
	})
	return err
}

func (r *RedisRepository) UpdateProfile(ctx context.Context, email string, update domain.ProfileUpdate) (*domain.User, error) {
	return r.mutate(ctx, email, func(u *domain.User) error {
		applyProfile(u, update)
		return nil
	}, nil)
}

func (r *RedisRepository) UpdateCRMCredentials(ctx context.Context, email string, creds domain.CRMCredentials) (*domain.User, error) {
	return r.mutate(ctx, email, func(u *domain.User) error {
		applyCRM(u, creds)
		return nil
	}, nil)
}

// ClearExpiredResetTokens closes every reset window whose expiry is before
// nowMillis. A window reopened since the zset entry was written is left alone.
func (r *RedisRepository) ClearExpiredResetTokens(ctx context.Context, nowMillis int64) (int, error) {
	emails, err := r.client.ZRangeByScore(ctx, resetExpirySet, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(nowMillis, 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list expired reset tokens: %w", err)
	}

	cleared := 0
	for _, email := range emails {
		_, err := r.mutate(ctx, email, func(u *domain.User) error {
			if u.ResetToken == "" || u.ResetTokenExpiry >= nowMillis {
				return errSkip
			}
			u.ResetToken = ""
			u.ResetTokenExpiry = 0
			return nil
		}, func(pipe redis.Pipeliner) {
			pipe.ZRem(ctx, resetExpirySet, email)
		})
		switch {
		case err == nil:
			cleared++
		case errors.Is(err, errSkip):
		case errors.Is(err, domain.ErrUserNotFound):
			r.client.ZRem(ctx, resetExpirySet, email)
		default:
			return cleared, err
		}
	}
	return cleared, nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var errSkip = errors.New("skip")

// mutate runs a WATCH/MULTI read-modify-write on one user document. fn may
// veto the write by returning an error; extra queues additional commands in
// the same transaction.
func (r *RedisRepository) mutate(ctx context.Context, email string, fn func(*domain.User) error, extra func(redis.Pipeliner)) (*domain.User, error) {
	key := r.userKey(email)
	var updated *domain.User

	txf := func(tx *redis.Tx) error {
		u, err := r.get(ctx, tx, email)
		if err != nil {
			return err
		}
		if err := fn(u); err != nil {
			return err
		}

		data, err := json.Marshal(toDoc(u))
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if extra != nil {
				extra(pipe)
			}
			return nil
		})
		if err != nil {
			return err
		}
		updated = u
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("failed to update user %s: too much contention", email)
}
