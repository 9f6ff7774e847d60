package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/facetrack-backend/internal/config"
	"github.com/stemsi/facetrack-backend/internal/model"
)

type redisSessionStore struct {
	rdb *redis.Client
}

// NewSessionStore creates a Redis-backed SessionStore.
func NewSessionStore(rdb *redis.Client) SessionStore {
	return &redisSessionStore{rdb: rdb}
}

func (s *redisSessionStore) Save(ctx context.Context, role model.Role, userID int, jti string, ttl time.Duration) error {
	return s.rdb.Set(ctx, config.CacheKey.SessionKey(string(role), userID), jti, ttl).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, role model.Role, userID int) (string, error) {
	jti, err := s.rdb.Get(ctx, config.CacheKey.SessionKey(string(role), userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return jti, err
}

func (s *redisSessionStore) Delete(ctx context.Context, role model.Role, userID int) error {
	return s.rdb.Del(ctx, config.CacheKey.SessionKey(string(role), userID)).Err()
}
