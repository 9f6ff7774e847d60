package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/facetrack-backend/internal/model"
)

type moduleRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewModuleRepository creates a PostgreSQL-backed ModuleRepository.
func NewModuleRepository(pool *pgxpool.Pool) ModuleRepository {
	return &moduleRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *moduleRepository) selectModules() squirrel.SelectBuilder {
	return r.sb.Select("m.id", "m.name", "m.qualification_id", "q.name", "m.created_at", "m.updated_at").
		From("modules m").
		Join("qualifications q ON q.id = m.qualification_id")
}

func scanModule(row interface{ Scan(...any) error }) (*model.Module, error) {
	m := &model.Module{}
	if err := row.Scan(&m.ID, &m.Name, &m.QualificationID, &m.QualificationName, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return m, nil
}

func (r *moduleRepository) List(ctx context.Context, qualificationID *int) ([]model.Module, error) {
	q := r.selectModules().OrderBy("m.name ASC", "m.id ASC")
	if qualificationID != nil {
		q = q.Where(squirrel.Eq{"m.qualification_id": *qualificationID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list modules query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modules := []model.Module{}
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, *m)
	}
	return modules, rows.Err()
}

func (r *moduleRepository) GetByID(ctx context.Context, id int) (*model.Module, error) {
	sql, args, err := r.selectModules().Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get module query: %w", err)
	}
	return scanModule(r.pool.QueryRow(ctx, sql, args...))
}

func (r *moduleRepository) Create(ctx context.Context, m *model.Module) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO modules (name, qualification_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		m.Name, m.QualificationID,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return translate(err)
}

func (r *moduleRepository) Update(ctx context.Context, m *model.Module) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE modules
		 SET name = $1, qualification_id = $2, updated_at = NOW()
		 WHERE id = $3
		 RETURNING created_at, updated_at`,
		m.Name, m.QualificationID, m.ID,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	return translate(err)
}

func (r *moduleRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
