package inmem

import (
	"context"
	"sort"

	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
)

type adminRepository struct{ db *DB }

func NewAdminRepository(db *DB) repository.AdminRepository { return &adminRepository{db: db} }

func (r *adminRepository) GetByID(_ context.Context, id int) (*model.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if a, ok := r.db.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *adminRepository) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, a := range r.db.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *adminRepository) List(_ context.Context) ([]model.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]model.Admin, 0, len(r.db.admins))
	for _, a := range r.db.admins {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *adminRepository) Create(_ context.Context, a *model.Admin) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.admins {
		if other.Username == a.Username {
			return repository.ErrDuplicateUsername
		}
	}
	a.ID = r.db.nextID()
	a.CreatedAt = r.db.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.db.admins[a.ID] = &cp
	return nil
}

func (r *adminRepository) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = passwordHash
	a.UpdatedAt = r.db.Now()
	return nil
}

type lecturerRepository struct{ db *DB }

func NewLecturerRepository(db *DB) repository.LecturerRepository {
	return &lecturerRepository{db: db}
}

func (r *lecturerRepository) List(_ context.Context) ([]model.Lecturer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]model.Lecturer, 0, len(r.db.lecturers))
	for _, l := range r.db.lecturers {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *lecturerRepository) GetByID(_ context.Context, id int) (*model.Lecturer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if l, ok := r.db.lecturers[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *lecturerRepository) GetByUsername(_ context.Context, username string) (*model.Lecturer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, l := range r.db.lecturers {
		if l.Username == username {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *lecturerRepository) usernameTaken(username string, exceptID int) bool {
	for _, l := range r.db.lecturers {
		if l.Username == username && l.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *lecturerRepository) Create(_ context.Context, l *model.Lecturer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.usernameTaken(l.Username, 0) {
		return repository.ErrDuplicateUsername
	}
	l.ID = r.db.nextID()
	l.CreatedAt = r.db.Now()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	r.db.lecturers[l.ID] = &cp
	return nil
}

func (r *lecturerRepository) Update(_ context.Context, l *model.Lecturer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.lecturers[l.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.usernameTaken(l.Username, l.ID) {
		return repository.ErrDuplicateUsername
	}
	l.CreatedAt = existing.CreatedAt
	l.UpdatedAt = r.db.Now()
	cp := *l
	r.db.lecturers[l.ID] = &cp
	return nil
}

func (r *lecturerRepository) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.lecturers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.lecturers, id)
	return nil
}
