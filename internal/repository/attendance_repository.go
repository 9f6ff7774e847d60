package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/facetrack-backend/internal/model"
)

type attendanceRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a PostgreSQL-backed AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *attendanceRepository) CreateBatch(ctx context.Context, records []model.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO attendance_records (student_id, module_id, qualification_id, recorded_at, status, marks)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at`,
			rec.StudentID, rec.ModuleID, rec.QualificationID, rec.RecordedAt, string(rec.Status), rec.Marks,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range records {
		if err := br.QueryRow().Scan(&records[i].ID, &records[i].CreatedAt); err != nil {
			br.Close()
			return translate(err)
		}
	}
	if err := br.Close(); err != nil {
		return translate(err)
	}

	return tx.Commit(ctx)
}

func attendanceFilterWhere(f model.AttendanceFilter) squirrel.And {
	where := squirrel.And{}
	if f.StudentID != nil {
		where = append(where, squirrel.Eq{"a.student_id": *f.StudentID})
	}
	if f.ModuleID != nil {
		where = append(where, squirrel.Eq{"a.module_id": *f.ModuleID})
	}
	if f.QualificationID != nil {
		where = append(where, squirrel.Eq{"a.qualification_id": *f.QualificationID})
	}
	if f.Status != "" {
		where = append(where, squirrel.Eq{"a.status": string(f.Status)})
	}
	if f.From != nil {
		where = append(where, squirrel.GtOrEq{"a.recorded_at": *f.From})
	}
	if f.To != nil {
		where = append(where, squirrel.LtOrEq{"a.recorded_at": *f.To})
	}
	return where
}

func (r *attendanceRepository) List(ctx context.Context, filter model.AttendanceFilter, limit, offset int) ([]model.AttendanceRecord, int, error) {
	where := attendanceFilterWhere(filter)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("attendance_records a").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count attendance query: %w", err)
	}
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := r.sb.Select(
		"a.id", "a.student_id", "s.student_number", "s.name",
		"a.module_id", "m.name", "a.qualification_id", "q.name",
		"a.recorded_at", "a.status", "a.marks", "a.created_at",
	).
		From("attendance_records a").
		Join("students s ON s.id = a.student_id").
		Join("modules m ON m.id = a.module_id").
		Join("qualifications q ON q.id = a.qualification_id").
		Where(where).
		OrderBy("a.recorded_at DESC", "s.student_number ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit)).Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list attendance query: %w", err)
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := []model.AttendanceRecord{}
	for rows.Next() {
		var a model.AttendanceRecord
		var status string
		if err := rows.Scan(&a.ID, &a.StudentID, &a.StudentNumber, &a.StudentName,
			&a.ModuleID, &a.ModuleName, &a.QualificationID, &a.QualificationName,
			&a.RecordedAt, &status, &a.Marks, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		a.Status = model.AttendanceStatus(status)
		records = append(records, a)
	}
	return records, total, rows.Err()
}
