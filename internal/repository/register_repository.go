package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/facetrack-backend/internal/model"
)

type registerRepository struct {
	pool *pgxpool.Pool
}

// NewRegisterRepository creates a PostgreSQL-backed RegisterRepository.
func NewRegisterRepository(pool *pgxpool.Pool) RegisterRepository {
	return &registerRepository{pool: pool}
}

func (r *registerRepository) Create(ctx context.Context, reg *model.Register) error {
	if reg.StudentNumbers == nil {
		reg.StudentNumbers = []string{}
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO registers (module_name, lecturer_name, recorded_at, student_numbers)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		reg.ModuleName, reg.LecturerName, reg.RecordedAt, reg.StudentNumbers,
	).Scan(&reg.ID, &reg.CreatedAt)
	return translate(err)
}

func (r *registerRepository) List(ctx context.Context, limit, offset int) ([]model.Register, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM registers`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, module_name, lecturer_name, recorded_at, student_numbers, created_at
		 FROM registers
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	registers := []model.Register{}
	for rows.Next() {
		var reg model.Register
		if err := rows.Scan(&reg.ID, &reg.ModuleName, &reg.LecturerName, &reg.RecordedAt, &reg.StudentNumbers, &reg.CreatedAt); err != nil {
			return nil, 0, err
		}
		registers = append(registers, reg)
	}
	return registers, total, rows.Err()
}

func (r *registerRepository) GetByID(ctx context.Context, id int) (*model.Register, error) {
	reg := &model.Register{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, module_name, lecturer_name, recorded_at, student_numbers, created_at
		 FROM registers WHERE id = $1`, id,
	).Scan(&reg.ID, &reg.ModuleName, &reg.LecturerName, &reg.RecordedAt, &reg.StudentNumbers, &reg.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return reg, nil
}
