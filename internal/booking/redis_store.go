package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "booking:session:"

// RedisClient is the subset of go-redis used by RedisStore. Both
// *redis.Client and *redis.ClusterClient satisfy it.
type RedisClient interface {
	redis.Cmdable
	Watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error
}

// RedisStore keeps sessions in Redis with a TTL so abandoned views expire on their own.
type RedisStore struct {
	client RedisClient
}

// NewRedisStore wraps a go-redis client.
func NewRedisStore(client RedisClient) *RedisStore {
	if client == nil {
		panic("booking: redis client required")
	}
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("booking: redis get: %w", err)
	}
	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("booking: decode session: %w", err)
	}
	return &session, nil
}

// Save writes the session under WATCH so that a concurrent writer on another
// instance makes it fail with ErrSessionConflict instead of being overwritten.
func (r *RedisStore) Save(ctx context.Context, session *Session, ttl time.Duration) error {
	key := redisKeyPrefix + session.ID
	staged := *session

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := storedVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		if stored != session.Version {
			return ErrSessionConflict
		}
		staged.Version = stored + 1
		payload, err := json.Marshal(&staged)
		if err != nil {
			return fmt.Errorf("booking: encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		session.Version = staged.Version
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return ErrSessionConflict
	case errors.Is(err, ErrSessionConflict):
		return err
	default:
		return fmt.Errorf("booking: redis set: %w", err)
	}
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("booking: redis del: %w", err)
	}
	return nil
}

func storedVersion(ctx context.Context, tx *redis.Tx, key string) (int, error) {
	payload, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var head struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return 0, fmt.Errorf("booking: decode session: %w", err)
	}
	return head.Version, nil
}
