package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/facetrack-backend/internal/model"
)

type lecturerRepository struct {
	pool *pgxpool.Pool
}

// NewLecturerRepository creates a PostgreSQL-backed LecturerRepository.
func NewLecturerRepository(pool *pgxpool.Pool) LecturerRepository {
	return &lecturerRepository{pool: pool}
}

const lecturerColumns = `id, name, username, password_hash, created_at, updated_at`

func scanLecturer(row interface{ Scan(...any) error }) (*model.Lecturer, error) {
	l := &model.Lecturer{}
	if err := row.Scan(&l.ID, &l.Name, &l.Username, &l.PasswordHash, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return l, nil
}

func (r *lecturerRepository) List(ctx context.Context) ([]model.Lecturer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+lecturerColumns+` FROM lecturers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lecturers := []model.Lecturer{}
	for rows.Next() {
		l, err := scanLecturer(rows)
		if err != nil {
			return nil, err
		}
		lecturers = append(lecturers, *l)
	}
	return lecturers, rows.Err()
}

func (r *lecturerRepository) GetByID(ctx context.Context, id int) (*model.Lecturer, error) {
	return scanLecturer(r.pool.QueryRow(ctx, `SELECT `+lecturerColumns+` FROM lecturers WHERE id = $1`, id))
}

func (r *lecturerRepository) GetByUsername(ctx context.Context, username string) (*model.Lecturer, error) {
	return scanLecturer(r.pool.QueryRow(ctx, `SELECT `+lecturerColumns+` FROM lecturers WHERE username = $1`, username))
}

func (r *lecturerRepository) Create(ctx context.Context, l *model.Lecturer) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO lecturers (name, username, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		l.Name, l.Username, l.PasswordHash,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	return translate(err)
}

func (r *lecturerRepository) Update(ctx context.Context, l *model.Lecturer) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE lecturers
		 SET name = $1, username = $2, password_hash = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING updated_at`,
		l.Name, l.Username, l.PasswordHash, l.ID,
	).Scan(&l.UpdatedAt)
	return translate(err)
}

func (r *lecturerRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM lecturers WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
