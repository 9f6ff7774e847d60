package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/config"
	"github.com/stemsi/facetrack-backend/internal/face"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/report"
	"github.com/stemsi/facetrack-backend/internal/repository/inmem"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// scriptedDetector returns the encodings registered for an exact image.
type scriptedDetector struct {
	faces map[string][]face.Encoding
	err   error
	calls int
}

func (d *scriptedDetector) Detect(_ context.Context, img []byte) ([]face.Encoding, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return d.faces[string(img)], nil
}

func (d *scriptedDetector) add(img []byte, encs ...face.Encoding) {
	d.faces[string(img)] = encs
}

func encAt(v float32) face.Encoding {
	var e face.Encoding
	e[0] = v
	return e
}

// testImage returns a distinct small PNG per seed.
func testImage(t *testing.T, seed uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: seed, G: 10, B: 20, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type testEnv struct {
	cfg      *config.Config
	db       *inmem.DB
	detector *scriptedDetector

	faces         *FaceIndexService
	auth          *AuthService
	photos        *PhotoService
	students      *StudentService
	lecturers     *LecturerService
	quals         *QualificationService
	modules       *ModuleService
	attendance    *AttendanceService
	registers     *RegisterService
	qualification *model.Qualification
	module        *model.Module
	lecturer      *model.Lecturer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()

	cfg := &config.Config{
		JWTSecret:              "test-secret",
		JWTExpiry:              time.Hour,
		BcryptCost:             bcrypt.MinCost,
		PhotoDir:               t.TempDir(),
		MaxUploadBytes:         1 << 20,
		FaceMatchTolerance:     0.5,
		FaceDuplicateTolerance: 0.6,
	}
	db := inmem.NewDB()
	det := &scriptedDetector{faces: map[string][]face.Encoding{}}

	studentRepo := inmem.NewStudentRepository(db)
	qualRepo := inmem.NewQualificationRepository(db)
	moduleRepo := inmem.NewModuleRepository(db)
	lecturerRepo := inmem.NewLecturerRepository(db)

	e := &testEnv{cfg: cfg, db: db, detector: det}
	e.faces = NewFaceIndexService(cfg, studentRepo, det, nil, log)
	e.auth = NewAuthService(cfg, inmem.NewAdminRepository(db), lecturerRepo, studentRepo, inmem.NewSessionStore(db), log)
	e.photos = NewPhotoService(cfg)
	e.students = NewStudentService(studentRepo, qualRepo, e.faces, e.photos, e.auth, log)
	e.lecturers = NewLecturerService(lecturerRepo, e.auth, log)
	e.quals = NewQualificationService(qualRepo, log)
	e.modules = NewModuleService(moduleRepo, qualRepo, log)
	e.attendance = NewAttendanceService(studentRepo, qualRepo, moduleRepo, lecturerRepo,
		inmem.NewAttendanceRepository(db), inmem.NewLiveAttendanceStore(db), e.faces, log)
	pdf, err := report.NewPDFRenderer("")
	require.NoError(t, err)
	e.registers = NewRegisterService(inmem.NewRegisterRepository(db), studentRepo, pdf, log)

	e.qualification, err = e.quals.Create(ctx, model.QualificationRequest{Name: "Diploma in IT"})
	require.NoError(t, err)
	e.module, err = e.modules.Create(ctx, model.ModuleRequest{Name: "Networks", QualificationID: e.qualification.ID})
	require.NoError(t, err)
	e.lecturer, err = e.lecturers.Create(ctx, model.CreateLecturerRequest{Name: "Dr Banda", Username: "banda", Password: "secret1"})
	require.NoError(t, err)
	return e
}

// enroll registers a student whose photo yields enc.
func (e *testEnv) enroll(t *testing.T, number string, seed uint8, enc face.Encoding) *model.Student {
	t.Helper()
	img := testImage(t, seed)
	e.detector.add(img, enc)
	st, err := e.students.Enroll(context.Background(), model.EnrollStudentRequest{
		StudentNumber:   number,
		Username:        number + "@school.test",
		Password:        "secret1",
		QualificationID: e.qualification.ID,
	}, img)
	require.NoError(t, err)
	return st
}
