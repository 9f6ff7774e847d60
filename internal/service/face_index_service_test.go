package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
	"github.com/stemsi/facetrack-backend/internal/repository/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaceIndexLoadSkipsCorruptEncodings(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.enroll(t, "S001", 1, encAt(0))

	repo := inmem.NewStudentRepository(e.db)
	require.NoError(t, repo.Create(ctx, &model.Student{
		StudentNumber:   "BAD",
		Username:        "bad@school.test",
		FaceEncoding:    []byte{1, 2, 3},
		QualificationID: e.qualification.ID,
	}))

	n, err := e.faces.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, e.faces.Stats().Count)
}

func TestFaceIndexReloadNotice(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	repo := inmem.NewStudentRepository(e.db)
	require.NoError(t, repo.Create(ctx, &model.Student{
		StudentNumber:   "S100",
		Username:        "s100@school.test",
		FaceEncoding:    encAt(1).Bytes(),
		QualificationID: e.qualification.ID,
	}))

	require.NoError(t, e.faces.HandleReloadNotice(ctx, e.faces.InstanceID()))
	assert.Zero(t, e.faces.Stats().Count, "own notices are ignored")

	require.NoError(t, e.faces.HandleReloadNotice(ctx, "other-instance"))
	assert.Equal(t, 1, e.faces.Stats().Count)
}

func TestFaceIndexIdentifyInvalidImage(t *testing.T) {
	e := newTestEnv(t)
	e.detector.err = errUnsupported

	_, _, err := e.faces.Identify(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

// gatedStudents holds the first ListEncodings call after taking its snapshot
// until release is closed.
type gatedStudents struct {
	repository.StudentRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStudents) ListEncodings(ctx context.Context) ([]model.FaceEncodingRow, error) {
	rows, err := g.StudentRepository.ListEncodings(ctx)
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return rows, err
}

func TestFaceIndexSlowLoadDoesNotOverwriteNewerEnroll(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.enroll(t, "S001", 1, encAt(0))

	gated := &gatedStudents{
		StudentRepository: inmem.NewStudentRepository(e.db),
		entered:           make(chan struct{}),
		release:           make(chan struct{}),
	}
	faces := NewFaceIndexService(e.cfg, gated, e.detector, nil, zerolog.Nop())
	students := NewStudentService(inmem.NewStudentRepository(e.db), inmem.NewQualificationRepository(e.db),
		faces, e.photos, e.auth, zerolog.Nop())

	slowLoad := make(chan error, 1)
	go func() {
		_, err := faces.Load(ctx)
		slowLoad <- err
	}()
	<-gated.entered

	img := testImage(t, 2)
	e.detector.add(img, encAt(3))
	enrolled := make(chan error, 1)
	go func() {
		_, err := students.Enroll(ctx, model.EnrollStudentRequest{
			StudentNumber:   "S002",
			Username:        "s002@school.test",
			Password:        "secret1",
			QualificationID: e.qualification.ID,
		}, img)
		enrolled <- err
	}()

	repo := inmem.NewStudentRepository(e.db)
	require.Eventually(t, func() bool {
		_, err := repo.GetByNumber(ctx, "S002")
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)

	close(gated.release)
	require.NoError(t, <-slowLoad)
	require.NoError(t, <-enrolled)

	assert.Equal(t, 2, faces.Stats().Count)
	_, numbers, err := faces.Identify(ctx, img)
	require.NoError(t, err)
	assert.Equal(t, []string{"S002"}, numbers)
}
