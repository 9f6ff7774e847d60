package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505", ConstraintName: "students_student_number_key"}), ErrDuplicateStudentNumber)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505", ConstraintName: "lecturers_username_key"}), ErrDuplicateUsername)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505", ConstraintName: "modules_name_qualification_id_key"}), ErrDuplicateName)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503"}), ErrForeignKey)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}
