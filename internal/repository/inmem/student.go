package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
)

type studentRepository struct{ db *DB }

func NewStudentRepository(db *DB) repository.StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) view(s *model.Student) model.Student {
	cp := *s
	cp.FaceEncoding = append([]byte(nil), s.FaceEncoding...)
	if q, ok := r.db.qualifications[s.QualificationID]; ok {
		cp.QualificationName = q.Name
	}
	return cp
}

func (r *studentRepository) sorted(match func(*model.Student) bool) []model.Student {
	out := []model.Student{}
	for _, s := range r.db.students {
		if match(s) {
			out = append(out, r.view(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentNumber < out[j].StudentNumber })
	return out
}

func (r *studentRepository) List(_ context.Context, f model.StudentFilter, limit, offset int) ([]model.Student, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	all := r.sorted(func(s *model.Student) bool {
		if f.QualificationID != nil && s.QualificationID != *f.QualificationID {
			return false
		}
		if search == "" {
			return true
		}
		return strings.Contains(strings.ToLower(s.Name), search) ||
			strings.Contains(strings.ToLower(s.StudentNumber), search) ||
			strings.Contains(strings.ToLower(s.Username), search)
	})
	return page(all, limit, offset), len(all), nil
}

func (r *studentRepository) ListByQualification(_ context.Context, qualificationID int) ([]model.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.sorted(func(s *model.Student) bool { return s.QualificationID == qualificationID }), nil
}

func (r *studentRepository) find(match func(*model.Student) bool) (*model.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, s := range r.db.students {
		if match(s) {
			v := r.view(s)
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *studentRepository) GetByID(_ context.Context, id int) (*model.Student, error) {
	return r.find(func(s *model.Student) bool { return s.ID == id })
}

func (r *studentRepository) GetByNumber(_ context.Context, n string) (*model.Student, error) {
	return r.find(func(s *model.Student) bool { return s.StudentNumber == n })
}

func (r *studentRepository) GetByUsername(_ context.Context, username string) (*model.Student, error) {
	return r.find(func(s *model.Student) bool { return s.Username == username })
}

func (r *studentRepository) GetByNumbers(_ context.Context, numbers []string) ([]model.Student, error) {
	want := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		want[n] = struct{}{}
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.sorted(func(s *model.Student) bool {
		_, ok := want[s.StudentNumber]
		return ok
	}), nil
}

func (r *studentRepository) check(s *model.Student) error {
	if _, ok := r.db.qualifications[s.QualificationID]; !ok {
		return repository.ErrForeignKey
	}
	for _, other := range r.db.students {
		if other.ID == s.ID {
			continue
		}
		if other.StudentNumber == s.StudentNumber {
			return repository.ErrDuplicateStudentNumber
		}
		if other.Username == s.Username {
			return repository.ErrDuplicateUsername
		}
	}
	return nil
}

func (r *studentRepository) Create(_ context.Context, s *model.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.check(s); err != nil {
		return err
	}
	s.ID = r.db.nextID()
	s.CreatedAt = r.db.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	cp.QualificationName = ""
	r.db.students[s.ID] = &cp
	return nil
}

func (r *studentRepository) Update(_ context.Context, s *model.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.students[s.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.check(s); err != nil {
		return err
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = r.db.Now()
	cp := *s
	cp.QualificationName = ""
	r.db.students[s.ID] = &cp
	return nil
}

// Delete cascades to the student's attendance records like the SQL schema.
func (r *studentRepository) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.students[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.students, id)
	for aid, a := range r.db.attendance {
		if a.StudentID == id {
			delete(r.db.attendance, aid)
		}
	}
	return nil
}

func (r *studentRepository) ListEncodings(_ context.Context) ([]model.FaceEncodingRow, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []model.FaceEncodingRow
	for _, s := range r.sorted(func(*model.Student) bool { return true }) {
		out = append(out, model.FaceEncodingRow{StudentNumber: s.StudentNumber, Encoding: s.FaceEncoding})
	}
	return out, nil
}
