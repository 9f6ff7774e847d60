// Package inmem implements the repository contracts in memory. It enforces
// the same uniqueness and foreign key rules as the SQL schema so services
// can be tested without PostgreSQL or Redis.
package inmem

import (
	"sync"
	"time"

	"github.com/stemsi/facetrack-backend/internal/model"
)

// DB holds every table behind one lock.
type DB struct {
	mu sync.RWMutex

	seq int

	admins         map[int]*model.Admin
	lecturers      map[int]*model.Lecturer
	qualifications map[int]*model.Qualification
	modules        map[int]*model.Module
	students       map[int]*model.Student
	attendance     map[int]*model.AttendanceRecord
	registers      map[int]*model.Register

	sessions map[string]session
	live     map[string]map[string]struct{}

	// Now is the clock used for timestamps.
	Now func() time.Time
}

type session struct {
	jti       string
	expiresAt time.Time
}

// NewDB returns an empty database.
func NewDB() *DB {
	return &DB{
		admins:         make(map[int]*model.Admin),
		lecturers:      make(map[int]*model.Lecturer),
		qualifications: make(map[int]*model.Qualification),
		modules:        make(map[int]*model.Module),
		students:       make(map[int]*model.Student),
		attendance:     make(map[int]*model.AttendanceRecord),
		registers:      make(map[int]*model.Register),
		sessions:       make(map[string]session),
		live:           make(map[string]map[string]struct{}),
		Now:            time.Now,
	}
}

func (db *DB) nextID() int {
	db.seq++
	return db.seq
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
