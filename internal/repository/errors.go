package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateUsername      = errors.New("username already exists")
	ErrDuplicateStudentNumber = errors.New("student number already exists")
	ErrDuplicateName          = errors.New("name already exists")
	// ErrForeignKey is returned when a row is still referenced, or references
	// a row that does not exist.
	ErrForeignKey = errors.New("foreign key violation")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// duplicateByConstraint maps unique constraint names from the migrations to
// the sentinel a caller can match on.
var duplicateByConstraint = map[string]error{
	"admins_username_key":               ErrDuplicateUsername,
	"lecturers_username_key":            ErrDuplicateUsername,
	"students_username_key":             ErrDuplicateUsername,
	"students_student_number_key":       ErrDuplicateStudentNumber,
	"qualifications_name_key":           ErrDuplicateName,
	"modules_name_qualification_id_key": ErrDuplicateName,
}

// translate converts pgx errors into repository sentinels. Unknown errors are
// returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		if sentinel, ok := duplicateByConstraint[pgErr.ConstraintName]; ok {
			return sentinel
		}
		return ErrDuplicateName
	case pgForeignKeyViolation:
		return ErrForeignKey
	}
	return err
}
