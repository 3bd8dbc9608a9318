package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:session:"

// RedisStore keeps each session as a JSON string with a TTL, so expiry is
// handled by redis itself.
type RedisStore struct {
	client *redis.Client
}

func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) key(id string) string { return redisKeyPrefix + id }

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *RedisStore) Put(ctx context.Context, sess *Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(sess.ID), b, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}

// DeleteExpired is a no-op: keys carry their own TTL.
func (r *RedisStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *RedisStore) Close() error { return r.client.Close() }
