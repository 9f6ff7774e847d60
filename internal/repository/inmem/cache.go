package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/stemsi/facetrack-backend/internal/config"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
)

type sessionStore struct{ db *DB }

func NewSessionStore(db *DB) repository.SessionStore { return &sessionStore{db: db} }

func (s *sessionStore) Save(_ context.Context, role model.Role, userID int, jti string, ttl time.Duration) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.sessions[config.CacheKey.SessionKey(string(role), userID)] = session{jti: jti, expiresAt: s.db.Now().Add(ttl)}
	return nil
}

func (s *sessionStore) Get(_ context.Context, role model.Role, userID int) (string, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	sess, ok := s.db.sessions[config.CacheKey.SessionKey(string(role), userID)]
	if !ok || !s.db.Now().Before(sess.expiresAt) {
		return "", repository.ErrNotFound
	}
	return sess.jti, nil
}

func (s *sessionStore) Delete(_ context.Context, role model.Role, userID int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.sessions, config.CacheKey.SessionKey(string(role), userID))
	return nil
}

type liveAttendanceStore struct{ db *DB }

func NewLiveAttendanceStore(db *DB) repository.LiveAttendanceStore {
	return &liveAttendanceStore{db: db}
}

func (s *liveAttendanceStore) AddMatched(_ context.Context, sessionID string, numbers ...string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	set, ok := s.db.live[sessionID]
	if !ok {
		set = make(map[string]struct{})
		s.db.live[sessionID] = set
	}
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return nil
}

func (s *liveAttendanceStore) Matched(_ context.Context, sessionID string) ([]string, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	out := []string{}
	for n := range s.db.live[sessionID] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

func (s *liveAttendanceStore) Clear(_ context.Context, sessionID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.live, sessionID)
	return nil
}
