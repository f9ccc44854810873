package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/gymsuite/gymsuite-backend/internal/clubs/domain"
)

const (
	recordSeqKey    = "club:records:seq" // INCR counter for record ids
	recordKeyPrefix = "club:record:"     // club:record:{id} -> JSON record
	userIndexPrefix = "club:user:"       // zset of record ids per user: club:user:{email}
	maxTxRetries    = 5
)

type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) recordKey(id int64) string {
	return recordKeyPrefix + strconv.FormatInt(id, 10)
}

func (r *RedisRepository) userIndexKey(email string) string {
	return userIndexPrefix + email
}

func (r *RedisRepository) NextID(ctx context.Context) (int64, error) {
	id, err := r.client.Incr(ctx, recordSeqKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate record id: %w", err)
	}
	return id, nil
}

func (r *RedisRepository) Create(ctx context.Context, record *domain.ClubRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	key := r.recordKey(record.ID)

	// The record and its index entry are written in one MULTI so a record is
	// never visible by ID without being listed for its user.
	txf := func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrRecordExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, r.userIndexKey(record.UserEmail), redis.Z{
				Score:  float64(record.ID),
				Member: record.ID,
			})
			return nil
		})
		return err
	}

	err = r.client.Watch(ctx, txf, key)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrRecordExists), err == redis.TxFailedErr:
		// A concurrent writer claimed the id first.
		return ErrRecordExists
	default:
		return fmt.Errorf("failed to create record: %w", err)
	}
}

func (r *RedisRepository) GetByID(ctx context.Context, id int64) (*domain.ClubRecord, error) {
	data, err := r.client.Get(ctx, r.recordKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return decodeRecord(data)
}

func (r *RedisRepository) ListByUser(ctx context.Context, email string) ([]domain.ClubRecord, error) {
	ids, err := r.client.ZRange(ctx, r.userIndexKey(email), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list record ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKeyPrefix + id
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	records := make([]domain.ClubRecord, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		rec, err := decodeRecord([]byte(s))
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (r *RedisRepository) ListByUserAndClub(ctx context.Context, email, club string, _ *domain.Period) ([]domain.ClubRecord, error) {
	all, err := r.ListByUser(ctx, email)
	if err != nil {
		return nil, err
	}

	var out []domain.ClubRecord
	for _, rec := range all {
		if rec.Club == club {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *RedisRepository) SetFields(ctx context.Context, id int64, group domain.FieldGroup, values [3]string) (*domain.ClubRecord, error) {
	key := r.recordKey(id)
	var updated *domain.ClubRecord

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return domain.ErrRecordNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get record: %w", err)
		}

		rec, err := decodeRecord(data)
		if err != nil {
			return err
		}
		if err := group.Apply(rec, values); err != nil {
			return err
		}

		out, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = rec
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
	return nil, fmt.Errorf("failed to update record %d: too much contention", id)
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func decodeRecord(data []byte) (*domain.ClubRecord, error) {
	var rec domain.ClubRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}
