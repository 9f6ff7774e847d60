package inmem

import (
	"context"
	"sort"

	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
)

type registerRepository struct{ db *DB }

func NewRegisterRepository(db *DB) repository.RegisterRepository {
	return &registerRepository{db: db}
}

func (r *registerRepository) Create(_ context.Context, reg *model.Register) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if reg.StudentNumbers == nil {
		reg.StudentNumbers = []string{}
	}
	reg.ID = r.db.nextID()
	reg.CreatedAt = r.db.Now()
	cp := *reg
	cp.StudentNumbers = append([]string{}, reg.StudentNumbers...)
	r.db.registers[reg.ID] = &cp
	return nil
}

func (r *registerRepository) List(_ context.Context, limit, offset int) ([]model.Register, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]model.Register, 0, len(r.db.registers))
	for _, reg := range r.db.registers {
		out = append(out, *reg)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.After(out[j].RecordedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, limit, offset), len(out), nil
}

func (r *registerRepository) GetByID(_ context.Context, id int) (*model.Register, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if reg, ok := r.db.registers[id]; ok {
		cp := *reg
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}
