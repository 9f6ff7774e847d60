package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentUniquenessAndCascade(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	quals := NewQualificationRepository(db)
	mods := NewModuleRepository(db)
	students := NewStudentRepository(db)
	attendance := NewAttendanceRepository(db)

	q := &model.Qualification{Name: "Diploma"}
	require.NoError(t, quals.Create(ctx, q))
	m := &model.Module{Name: "Networks", QualificationID: q.ID}
	require.NoError(t, mods.Create(ctx, m))

	s := &model.Student{StudentNumber: "S1", Username: "s1@x.io", QualificationID: q.ID}
	require.NoError(t, students.Create(ctx, s))

	err := students.Create(ctx, &model.Student{StudentNumber: "S1", Username: "other@x.io", QualificationID: q.ID})
	assert.ErrorIs(t, err, repository.ErrDuplicateStudentNumber)
	err = students.Create(ctx, &model.Student{StudentNumber: "S2", Username: "s1@x.io", QualificationID: q.ID})
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)

	require.NoError(t, attendance.CreateBatch(ctx, []model.AttendanceRecord{{
		StudentID: s.ID, ModuleID: m.ID, QualificationID: q.ID, RecordedAt: time.Now(), Status: model.StatusPresent,
	}}))
	assert.ErrorIs(t, quals.Delete(ctx, q.ID), repository.ErrForeignKey)

	require.NoError(t, students.Delete(ctx, s.ID))
	_, total, err := attendance.List(ctx, model.AttendanceFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRegistersNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRegisterRepository(NewDB())
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Register{ModuleName: "M", RecordedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	regs, total, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, regs, 2)
	assert.True(t, regs[0].RecordedAt.After(regs[1].RecordedAt))
}

func TestSessionExpiry(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	now := time.Now()
	db.Now = func() time.Time { return now }
	store := NewSessionStore(db)

	require.NoError(t, store.Save(ctx, model.RoleLecturer, 1, "jti", time.Minute))
	got, err := store.Get(ctx, model.RoleLecturer, 1)
	require.NoError(t, err)
	assert.Equal(t, "jti", got)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, model.RoleLecturer, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
