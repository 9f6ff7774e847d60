package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the cache key holding the active token ID of a user.
// role is one of admin, lecturer or student.
func (r *CacheKeyStruct) SessionKey(role string, userID int) string {
	return fmt.Sprintf("session:%s:%d", role, userID)
}

// LiveAttendanceKey returns the cache key for the matched students of a live capture session.
func (r *CacheKeyStruct) LiveAttendanceKey(sessionID string) string {
	return fmt.Sprintf("live:%s:matched", sessionID)
}

var CacheKey = NewCacheKeyStruct()
