package repository

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/facetrack-backend/internal/config"
)

// liveSessionTTL bounds how long an abandoned live capture keeps its matches.
const liveSessionTTL = 2 * time.Hour

type redisLiveAttendanceStore struct {
	rdb *redis.Client
}

// NewLiveAttendanceStore creates a Redis-backed LiveAttendanceStore. Matches
// are kept in a set per capture session.
func NewLiveAttendanceStore(rdb *redis.Client) LiveAttendanceStore {
	return &redisLiveAttendanceStore{rdb: rdb}
}

func (s *redisLiveAttendanceStore) AddMatched(ctx context.Context, sessionID string, studentNumbers ...string) error {
	if len(studentNumbers) == 0 {
		return nil
	}
	key := config.CacheKey.LiveAttendanceKey(sessionID)
	members := make([]interface{}, len(studentNumbers))
	for i, n := range studentNumbers {
		members[i] = n
	}

	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, liveSessionTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisLiveAttendanceStore) Matched(ctx context.Context, sessionID string) ([]string, error) {
	members, err := s.rdb.SMembers(ctx, config.CacheKey.LiveAttendanceKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(members)
	return members, nil
}

func (s *redisLiveAttendanceStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, config.CacheKey.LiveAttendanceKey(sessionID)).Err()
}
