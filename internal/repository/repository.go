// Package repository holds the data access contracts and their PostgreSQL and
// Redis implementations.
package repository

import (
	"context"
	"time"

	"github.com/stemsi/facetrack-backend/internal/model"
)

type AdminRepository interface {
	GetByID(ctx context.Context, id int) (*model.Admin, error)
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	List(ctx context.Context) ([]model.Admin, error)
	Create(ctx context.Context, admin *model.Admin) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}

type LecturerRepository interface {
	List(ctx context.Context) ([]model.Lecturer, error)
	GetByID(ctx context.Context, id int) (*model.Lecturer, error)
	GetByUsername(ctx context.Context, username string) (*model.Lecturer, error)
	Create(ctx context.Context, lecturer *model.Lecturer) error
	Update(ctx context.Context, lecturer *model.Lecturer) error
	Delete(ctx context.Context, id int) error
}

type QualificationRepository interface {
	List(ctx context.Context) ([]model.Qualification, error)
	GetByID(ctx context.Context, id int) (*model.Qualification, error)
	Create(ctx context.Context, q *model.Qualification) error
	Update(ctx context.Context, q *model.Qualification) error
	Delete(ctx context.Context, id int) error
}

type ModuleRepository interface {
	// List returns modules ordered by name. A nil qualificationID lists all.
	List(ctx context.Context, qualificationID *int) ([]model.Module, error)
	GetByID(ctx context.Context, id int) (*model.Module, error)
	Create(ctx context.Context, m *model.Module) error
	Update(ctx context.Context, m *model.Module) error
	Delete(ctx context.Context, id int) error
}

type StudentRepository interface {
	List(ctx context.Context, filter model.StudentFilter, limit, offset int) ([]model.Student, int, error)
	ListByQualification(ctx context.Context, qualificationID int) ([]model.Student, error)
	GetByID(ctx context.Context, id int) (*model.Student, error)
	GetByNumber(ctx context.Context, studentNumber string) (*model.Student, error)
	GetByUsername(ctx context.Context, username string) (*model.Student, error)
	// GetByNumbers returns the students that exist among numbers, ordered by
	// student number. Unknown numbers are ignored.
	GetByNumbers(ctx context.Context, numbers []string) ([]model.Student, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	Delete(ctx context.Context, id int) error
	// ListEncodings returns every enrolled face encoding for the face index.
	ListEncodings(ctx context.Context) ([]model.FaceEncodingRow, error)
}

type AttendanceRepository interface {
	// CreateBatch inserts all records of one session atomically.
	CreateBatch(ctx context.Context, records []model.AttendanceRecord) error
	// List returns records newest first.
	List(ctx context.Context, filter model.AttendanceFilter, limit, offset int) ([]model.AttendanceRecord, int, error)
}

type RegisterRepository interface {
	Create(ctx context.Context, r *model.Register) error
	// List returns registers newest first.
	List(ctx context.Context, limit, offset int) ([]model.Register, int, error)
	GetByID(ctx context.Context, id int) (*model.Register, error)
}

// SessionStore keeps the active token ID of each logged-in account.
type SessionStore interface {
	Save(ctx context.Context, role model.Role, userID int, jti string, ttl time.Duration) error
	// Get returns ErrNotFound when no session is active.
	Get(ctx context.Context, role model.Role, userID int) (string, error)
	Delete(ctx context.Context, role model.Role, userID int) error
}

// LiveAttendanceStore accumulates students matched during a live camera session.
type LiveAttendanceStore interface {
	AddMatched(ctx context.Context, sessionID string, studentNumbers ...string) error
	Matched(ctx context.Context, sessionID string) ([]string, error)
	Clear(ctx context.Context, sessionID string) error
}
