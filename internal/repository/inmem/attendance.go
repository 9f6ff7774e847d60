package inmem

import (
	"context"
	"sort"

	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
)

type attendanceRepository struct{ db *DB }

func NewAttendanceRepository(db *DB) repository.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// CreateBatch validates every record before inserting any of them.
func (r *attendanceRepository) CreateBatch(_ context.Context, records []model.AttendanceRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, rec := range records {
		if _, ok := r.db.students[rec.StudentID]; !ok {
			return repository.ErrForeignKey
		}
		if _, ok := r.db.modules[rec.ModuleID]; !ok {
			return repository.ErrForeignKey
		}
		if _, ok := r.db.qualifications[rec.QualificationID]; !ok {
			return repository.ErrForeignKey
		}
	}
	for i := range records {
		records[i].ID = r.db.nextID()
		records[i].CreatedAt = r.db.Now()
		cp := records[i]
		r.db.attendance[cp.ID] = &cp
	}
	return nil
}

func matchesAttendance(a *model.AttendanceRecord, f model.AttendanceFilter) bool {
	switch {
	case f.StudentID != nil && a.StudentID != *f.StudentID:
		return false
	case f.ModuleID != nil && a.ModuleID != *f.ModuleID:
		return false
	case f.QualificationID != nil && a.QualificationID != *f.QualificationID:
		return false
	case f.Status != "" && a.Status != f.Status:
		return false
	case f.From != nil && a.RecordedAt.Before(*f.From):
		return false
	case f.To != nil && a.RecordedAt.After(*f.To):
		return false
	}
	return true
}

func (r *attendanceRepository) List(_ context.Context, f model.AttendanceFilter, limit, offset int) ([]model.AttendanceRecord, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []model.AttendanceRecord{}
	for _, a := range r.db.attendance {
		if !matchesAttendance(a, f) {
			continue
		}
		rec := *a
		if s, ok := r.db.students[a.StudentID]; ok {
			rec.StudentNumber, rec.StudentName = s.StudentNumber, s.Name
		}
		if m, ok := r.db.modules[a.ModuleID]; ok {
			rec.ModuleName = m.Name
		}
		if q, ok := r.db.qualifications[a.QualificationID]; ok {
			rec.QualificationName = q.Name
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.After(out[j].RecordedAt)
		}
		return out[i].StudentNumber < out[j].StudentNumber
	})
	return page(out, limit, offset), len(out), nil
}
