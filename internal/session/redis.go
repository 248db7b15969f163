package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so dialog state survives process
// restarts. TTL handling is delegated to key expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an already-connected client. Non-positive ttl
// falls back to 30 minutes.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Ping verifies the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("session: ping redis: %w", err)
	}
	return nil
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if err == redis.Nil {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: get %d: %w", userID, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A malformed payload is unrecoverable; start the dialog over.
		return New(), nil
	}
	return &sess, nil
}

func (s *RedisStore) Put(ctx context.Context, userID int64, sess *Session) error {
	sess.UpdatedAt = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: marshal %d: %w", userID, err)
	}
	if err := s.client.Set(ctx, sessionKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: put %d: %w", userID, err)
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("session: reset %d: %w", userID, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
