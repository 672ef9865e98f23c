package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "biomax:session:"

// RedisStore keeps sessions in redis with a key TTL matching their expiry,
// so several dashboard replicas share logins.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// NewRedisClient builds a client the way the store expects it.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func redisKey(token string) string {
	return redisKeyPrefix + token
}

// Save stores a session until its expiry.
func (rs *RedisStore) Save(ctx context.Context, s Session) error {
	ttl := s.ExpiresAt.Sub(rs.now())
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := rs.client.Set(ctx, redisKey(s.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get loads a live session.
func (rs *RedisStore) Get(ctx context.Context, token string) (Session, error) {
	payload, err := rs.client.Get(ctx, redisKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(rs.now()) {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

// Delete revokes a session.
func (rs *RedisStore) Delete(ctx context.Context, token string) error {
	if err := rs.client.Del(ctx, redisKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
