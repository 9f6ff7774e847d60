package inmem

import (
	"context"
	"sort"

	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
)

type qualificationRepository struct{ db *DB }

func NewQualificationRepository(db *DB) repository.QualificationRepository {
	return &qualificationRepository{db: db}
}

func (r *qualificationRepository) List(_ context.Context) ([]model.Qualification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]model.Qualification, 0, len(r.db.qualifications))
	for _, q := range r.db.qualifications {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *qualificationRepository) GetByID(_ context.Context, id int) (*model.Qualification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if q, ok := r.db.qualifications[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *qualificationRepository) nameTaken(name string, exceptID int) bool {
	for _, q := range r.db.qualifications {
		if q.Name == name && q.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *qualificationRepository) Create(_ context.Context, q *model.Qualification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.nameTaken(q.Name, 0) {
		return repository.ErrDuplicateName
	}
	q.ID = r.db.nextID()
	q.CreatedAt = r.db.Now()
	q.UpdatedAt = q.CreatedAt
	cp := *q
	r.db.qualifications[q.ID] = &cp
	return nil
}

func (r *qualificationRepository) Update(_ context.Context, q *model.Qualification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.qualifications[q.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(q.Name, q.ID) {
		return repository.ErrDuplicateName
	}
	q.CreatedAt = existing.CreatedAt
	q.UpdatedAt = r.db.Now()
	cp := *q
	r.db.qualifications[q.ID] = &cp
	return nil
}

func (r *qualificationRepository) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.qualifications[id]; !ok {
		return repository.ErrNotFound
	}
	for _, m := range r.db.modules {
		if m.QualificationID == id {
			return repository.ErrForeignKey
		}
	}
	for _, s := range r.db.students {
		if s.QualificationID == id {
			return repository.ErrForeignKey
		}
	}
	delete(r.db.qualifications, id)
	return nil
}

type moduleRepository struct{ db *DB }

func NewModuleRepository(db *DB) repository.ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) withQualification(m model.Module) model.Module {
	if q, ok := r.db.qualifications[m.QualificationID]; ok {
		m.QualificationName = q.Name
	}
	return m
}

func (r *moduleRepository) List(_ context.Context, qualificationID *int) ([]model.Module, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []model.Module{}
	for _, m := range r.db.modules {
		if qualificationID != nil && m.QualificationID != *qualificationID {
			continue
		}
		out = append(out, r.withQualification(*m))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *moduleRepository) GetByID(_ context.Context, id int) (*model.Module, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if m, ok := r.db.modules[id]; ok {
		cp := r.withQualification(*m)
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *moduleRepository) check(m *model.Module) error {
	if _, ok := r.db.qualifications[m.QualificationID]; !ok {
		return repository.ErrForeignKey
	}
	for _, other := range r.db.modules {
		if other.ID != m.ID && other.Name == m.Name && other.QualificationID == m.QualificationID {
			return repository.ErrDuplicateName
		}
	}
	return nil
}

func (r *moduleRepository) Create(_ context.Context, m *model.Module) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.check(m); err != nil {
		return err
	}
	m.ID = r.db.nextID()
	m.CreatedAt = r.db.Now()
	m.UpdatedAt = m.CreatedAt
	cp := *m
	r.db.modules[m.ID] = &cp
	return nil
}

func (r *moduleRepository) Update(_ context.Context, m *model.Module) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.modules[m.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.check(m); err != nil {
		return err
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = r.db.Now()
	cp := *m
	r.db.modules[m.ID] = &cp
	return nil
}

func (r *moduleRepository) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.modules[id]; !ok {
		return repository.ErrNotFound
	}
	for _, a := range r.db.attendance {
		if a.ModuleID == id {
			return repository.ErrForeignKey
		}
	}
	delete(r.db.modules, id)
	return nil
}
