package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/facetrack-backend/internal/model"
)

type qualificationRepository struct {
	pool *pgxpool.Pool
}

// NewQualificationRepository creates a PostgreSQL-backed QualificationRepository.
func NewQualificationRepository(pool *pgxpool.Pool) QualificationRepository {
	return &qualificationRepository{pool: pool}
}

func (r *qualificationRepository) List(ctx context.Context) ([]model.Qualification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, created_at, updated_at FROM qualifications ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quals := []model.Qualification{}
	for rows.Next() {
		var q model.Qualification
		if err := rows.Scan(&q.ID, &q.Name, &q.Description, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quals = append(quals, q)
	}
	return quals, rows.Err()
}

func (r *qualificationRepository) GetByID(ctx context.Context, id int) (*model.Qualification, error) {
	q := &model.Qualification{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM qualifications WHERE id = $1`, id,
	).Scan(&q.ID, &q.Name, &q.Description, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return q, nil
}

func (r *qualificationRepository) Create(ctx context.Context, q *model.Qualification) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO qualifications (name, description)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		q.Name, q.Description,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	return translate(err)
}

func (r *qualificationRepository) Update(ctx context.Context, q *model.Qualification) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE qualifications
		 SET name = $1, description = $2, updated_at = NOW()
		 WHERE id = $3
		 RETURNING created_at, updated_at`,
		q.Name, q.Description, q.ID,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
	return translate(err)
}

func (r *qualificationRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM qualifications WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
