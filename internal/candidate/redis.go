package candidate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed candidate store. Expiry rides on the key TTL
// and consumption uses GETDEL so a candidate can only be accepted once even
// across replicas.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed candidate store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "candidate:",
	}
}

// key scopes candidates by owning user so one user cannot consume another's.
func (s *RedisStore) key(userID int64, id string) string {
	return fmt.Sprintf("%s%d:%s", s.prefix, userID, id)
}

func (s *RedisStore) Put(ctx context.Context, c Candidate) error {
	if c.ExpiresAt.IsZero() {
		c.ExpiresAt = time.Now().Add(DefaultTTL)
	}

	ttl := time.Until(c.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("candidate: expires_at must be in the future")
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("candidate: failed to marshal: %w", err)
	}

	return s.client.Set(ctx, s.key(c.UserID, c.ID), data, ttl).Err()
}

func (s *RedisStore) Consume(ctx context.Context, userID int64, id string) (*Candidate, error) {
	val, err := s.client.GetDel(ctx, s.key(userID, id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var c Candidate
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return nil, fmt.Errorf("candidate: failed to unmarshal: %w", err)
	}

	return &c, nil
}

func (s *RedisStore) Discard(ctx context.Context, userID int64, id string) error {
	deleted, err := s.client.Del(ctx, s.key(userID, id)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}
