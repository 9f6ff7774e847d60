package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/facetrack-backend/internal/model"
)

type studentRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewStudentRepository creates a PostgreSQL-backed StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *studentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.student_number", "s.name", "s.username", "s.face_encoding", "s.password_hash",
		"s.qualification_id", "q.name", "s.photo_path", "s.created_at", "s.updated_at",
	).
		From("students s").
		Join("qualifications q ON q.id = s.qualification_id")
}

func scanStudent(row interface{ Scan(...any) error }) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(&s.ID, &s.StudentNumber, &s.Name, &s.Username, &s.FaceEncoding, &s.PasswordHash,
		&s.QualificationID, &s.QualificationName, &s.PhotoPath, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

func (r *studentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*model.Student, error) {
	sql, args, err := r.selectStudents().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get student query: %w", err)
	}
	return scanStudent(r.pool.QueryRow(ctx, sql, args...))
}

func (r *studentRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]model.Student, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list students query: %w", err)
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

// likeEscaper makes user input match literally inside a LIKE pattern;
// backslash is the default LIKE escape character in PostgreSQL.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func studentFilterWhere(f model.StudentFilter) squirrel.And {
	where := squirrel.And{}
	if f.QualificationID != nil {
		where = append(where, squirrel.Eq{"s.qualification_id": *f.QualificationID})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + escapeLike(search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"s.name": like},
			squirrel.ILike{"s.student_number": like},
			squirrel.ILike{"s.username": like},
		})
	}
	return where
}

func (r *studentRepository) List(ctx context.Context, filter model.StudentFilter, limit, offset int) ([]model.Student, int, error) {
	where := studentFilterWhere(filter)

	// 1. Total count
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("students s").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count students query: %w", err)
	}
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// 2. Page
	students, err := r.query(ctx, r.selectStudents().
		Where(where).
		OrderBy("s.student_number ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)))
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (r *studentRepository) ListByQualification(ctx context.Context, qualificationID int) ([]model.Student, error) {
	return r.query(ctx, r.selectStudents().
		Where(squirrel.Eq{"s.qualification_id": qualificationID}).
		OrderBy("s.student_number ASC"))
}

func (r *studentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"s.id": id})
}

func (r *studentRepository) GetByNumber(ctx context.Context, studentNumber string) (*model.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"s.student_number": studentNumber})
}

func (r *studentRepository) GetByUsername(ctx context.Context, username string) (*model.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"s.username": username})
}

func (r *studentRepository) GetByNumbers(ctx context.Context, numbers []string) ([]model.Student, error) {
	if len(numbers) == 0 {
		return []model.Student{}, nil
	}
	// squirrel.Eq with a slice renders as IN (...).
	return r.query(ctx, r.selectStudents().
		Where(squirrel.Eq{"s.student_number": numbers}).
		OrderBy("s.student_number ASC"))
}

func (r *studentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (student_number, name, username, face_encoding, password_hash, qualification_id, photo_path)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		s.StudentNumber, s.Name, s.Username, s.FaceEncoding, s.PasswordHash, s.QualificationID, s.PhotoPath,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

func (r *studentRepository) Update(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE students
		 SET student_number = $1, name = $2, username = $3, face_encoding = $4, password_hash = $5,
		     qualification_id = $6, photo_path = $7, updated_at = NOW()
		 WHERE id = $8
		 RETURNING updated_at`,
		s.StudentNumber, s.Name, s.Username, s.FaceEncoding, s.PasswordHash, s.QualificationID, s.PhotoPath, s.ID,
	).Scan(&s.UpdatedAt)
	return translate(err)
}

func (r *studentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *studentRepository) ListEncodings(ctx context.Context) ([]model.FaceEncodingRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT student_number, face_encoding FROM students ORDER BY student_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FaceEncodingRow
	for rows.Next() {
		var row model.FaceEncodingRow
		if err := rows.Scan(&row.StudentNumber, &row.Encoding); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
