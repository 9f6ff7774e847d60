package router

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/config"
	"github.com/stemsi/facetrack-backend/internal/face"
	"github.com/stemsi/facetrack-backend/internal/handler"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/report"
	"github.com/stemsi/facetrack-backend/internal/repository/inmem"
	"github.com/stemsi/facetrack-backend/internal/service"
	"github.com/stemsi/facetrack-backend/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	validator.Setup()
}

type scriptedDetector struct {
	faces map[string][]face.Encoding
}

func (d *scriptedDetector) Detect(_ context.Context, img []byte) ([]face.Encoding, error) {
	return d.faces[string(img)], nil
}

func encAt(v float32) face.Encoding {
	var e face.Encoding
	e[0] = v
	return e
}

func pngImage(t *testing.T, seed uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: seed, G: 40, B: 80, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
}

type apiEnv struct {
	t             *testing.T
	r             *gin.Engine
	det           *scriptedDetector
	qualification *model.Qualification
	module        *model.Module
	adminToken    string
	lecturerToken string
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	log := zerolog.Nop()

	cfg := &config.Config{
		GinMode:                gin.TestMode,
		JWTSecret:              "router-secret",
		JWTExpiry:              time.Hour,
		BcryptCost:             bcrypt.MinCost,
		PhotoDir:               t.TempDir(),
		MaxUploadBytes:         1 << 20,
		FaceMatchTolerance:     0.5,
		FaceDuplicateTolerance: 0.6,
		LoginRateLimit:         100,
	}
	db := inmem.NewDB()
	det := &scriptedDetector{faces: map[string][]face.Encoding{}}

	studentRepo := inmem.NewStudentRepository(db)
	qualRepo := inmem.NewQualificationRepository(db)
	moduleRepo := inmem.NewModuleRepository(db)
	lecturerRepo := inmem.NewLecturerRepository(db)

	faces := service.NewFaceIndexService(cfg, studentRepo, det, nil, log)
	auth := service.NewAuthService(cfg, inmem.NewAdminRepository(db), lecturerRepo, studentRepo, inmem.NewSessionStore(db), log)
	photos := service.NewPhotoService(cfg)
	students := service.NewStudentService(studentRepo, qualRepo, faces, photos, auth, log)
	lecturers := service.NewLecturerService(lecturerRepo, auth, log)
	quals := service.NewQualificationService(qualRepo, log)
	modules := service.NewModuleService(moduleRepo, qualRepo, log)
	attendance := service.NewAttendanceService(studentRepo, qualRepo, moduleRepo, lecturerRepo,
		inmem.NewAttendanceRepository(db), inmem.NewLiveAttendanceStore(db), faces, log)
	pdf, err := report.NewPDFRenderer("")
	require.NoError(t, err)
	registers := service.NewRegisterService(inmem.NewRegisterRepository(db), studentRepo, pdf, log)

	handlers := &Handlers{
		Auth:          handler.NewAuthHandler(auth),
		Student:       handler.NewStudentHandler(students, photos),
		Lecturer:      handler.NewLecturerHandler(lecturers),
		Catalog:       handler.NewCatalogHandler(quals, modules),
		Attendance:    handler.NewAttendanceHandler(attendance, students, photos),
		Register:      handler.NewRegisterHandler(registers, lecturers),
		StudentPortal: handler.NewStudentPortalHandler(attendance),
		Face:          handler.NewFaceHandler(faces, photos),
		WS:            handler.NewWSHandler(attendance, photos, log, nil, cfg.MaxUploadBytes),
		Health:        handler.NewHealthHandler(nil, nil, faces),
	}

	e := &apiEnv{t: t, r: SetupRouter(ctx, auth, handlers, cfg, log), det: det}

	_, err = auth.CreateAdmin(ctx, "root", "secret1")
	require.NoError(t, err)
	_, err = lecturers.Create(ctx, model.CreateLecturerRequest{Name: "Dr Banda", Username: "banda", Password: "secret1"})
	require.NoError(t, err)
	e.qualification, err = quals.Create(ctx, model.QualificationRequest{Name: "Diploma in IT"})
	require.NoError(t, err)
	e.module, err = modules.Create(ctx, model.ModuleRequest{Name: "Networks", QualificationID: e.qualification.ID})
	require.NoError(t, err)

	e.adminToken = e.login("/api/v1/auth/login", `{"username":"root","password":"secret1"}`)
	e.lecturerToken = e.login("/api/v1/auth/login", `{"username":"banda","password":"secret1"}`)
	return e
}

func (e *apiEnv) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *apiEnv) json(method, path, token, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return e.do(method, path, token, r, "application/json")
}

func (e *apiEnv) multipart(method, path, token string, fields map[string]string, img []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(e.t, w.WriteField(k, v))
	}
	if img != nil {
		part, err := w.CreateFormFile("image", "photo.png")
		require.NoError(e.t, err)
		_, err = part.Write(img)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, w.Close())
	return e.do(method, path, token, &buf, w.FormDataContentType())
}

func (e *apiEnv) login(path, body string) string {
	w := e.json(http.MethodPost, path, "", body)
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	var res model.LoginResponse
	decode(e.t, w, &res)
	return res.Token
}

// enroll registers a student whose photo yields enc.
func (e *apiEnv) enroll(number string, seed uint8, enc face.Encoding) *httptest.ResponseRecorder {
	img := pngImage(e.t, seed)
	e.det.faces[string(img)] = []face.Encoding{enc}
	return e.multipart(http.MethodPost, "/api/v1/admin/students", e.adminToken, map[string]string{
		"student_id":       number,
		"student_username": strings.ToLower(number) + "@school.test",
		"student_password": "secret1",
		"qualification_id": fmt.Sprint(e.qualification.ID),
	}, img)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.NotNil(t, env.Error, w.Body.String())
	return env.Error.Code
}

func TestHealth(t *testing.T) {
	e := newAPI(t)
	w := e.do(http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLoginAndProfile(t *testing.T) {
	e := newAPI(t)

	w := e.json(http.MethodPost, "/api/v1/auth/login", "", `{"username":"root","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errCode(t, w))

	w = e.json(http.MethodPost, "/api/v1/auth/login", "", `{"username":"root"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, w))

	w = e.json(http.MethodGet, "/api/v1/auth/me", e.lecturerToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Profile model.Profile `json:"profile"`
	}
	decode(t, w, &body)
	assert.Equal(t, model.RoleLecturer, body.Profile.Role)
	assert.Equal(t, "Dr Banda", body.Profile.Name)
}

func TestRoleGuardAndLogout(t *testing.T) {
	e := newAPI(t)

	w := e.json(http.MethodGet, "/api/v1/admin/lecturers", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.json(http.MethodGet, "/api/v1/admin/lecturers", e.lecturerToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errCode(t, w))

	w = e.json(http.MethodGet, "/api/v1/lecturer/qualifications", e.lecturerToken, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.json(http.MethodPost, "/api/v1/auth/logout", e.lecturerToken, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = e.json(http.MethodGet, "/api/v1/lecturer/qualifications", e.lecturerToken, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SESSION_INVALIDATED", errCode(t, w))
}

func TestEnrollmentLifecycle(t *testing.T) {
	e := newAPI(t)

	w := e.enroll("S001", 1, encAt(0.1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Student model.Student `json:"student"`
	}
	decode(t, w, &created)
	assert.Equal(t, "Student S001", created.Student.Name)
	assert.Equal(t, "/photos/S001.jpg", created.Student.PhotoPath)

	t.Run("duplicate student id", func(t *testing.T) {
		w := e.enroll("S001", 2, encAt(3))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "DUPLICATE_STUDENT_ID", errCode(t, w))
	})

	t.Run("duplicate face", func(t *testing.T) {
		w := e.enroll("S002", 3, encAt(0.2))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "DUPLICATE_FACE", errCode(t, w))
	})

	t.Run("no face", func(t *testing.T) {
		w := e.multipart(http.MethodPost, "/api/v1/admin/students", e.adminToken, map[string]string{
			"student_id":       "S003",
			"student_username": "s003@school.test",
			"student_password": "secret1",
			"qualification_id": fmt.Sprint(e.qualification.ID),
		}, pngImage(t, 4))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "NO_FACE_DETECTED", errCode(t, w))
	})

	t.Run("missing image", func(t *testing.T) {
		w := e.multipart(http.MethodPost, "/api/v1/admin/students", e.adminToken, map[string]string{
			"student_id":       "S004",
			"student_username": "s004@school.test",
			"student_password": "secret1",
			"qualification_id": fmt.Sprint(e.qualification.ID),
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "IMAGE_REQUIRED", errCode(t, w))
	})

	t.Run("missing field", func(t *testing.T) {
		w := e.multipart(http.MethodPost, "/api/v1/admin/students", e.adminToken, map[string]string{
			"student_id": "S005",
		}, pngImage(t, 5))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errCode(t, w))
	})

	t.Run("listed for lecturers", func(t *testing.T) {
		w := e.json(http.MethodGet, "/api/v1/lecturer/students?search=s001", e.lecturerToken, "")
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Students []model.Student `json:"students"`
		}
		decode(t, w, &body)
		require.Len(t, body.Students, 1)
		assert.Equal(t, "Diploma in IT", body.Students[0].QualificationName)
	})

	t.Run("photo served behind auth", func(t *testing.T) {
		w := e.do(http.MethodGet, "/photos/S001.jpg", "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = e.do(http.MethodGet, "/photos/S001.jpg?token="+e.lecturerToken, "", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "private, max-age=300", w.Header().Get("Cache-Control"))
	})

	var stats struct {
		Stats model.FaceIndexStats `json:"stats"`
	}
	w = e.json(http.MethodGet, "/api/v1/admin/faces/stats", e.adminToken, "")
	decode(t, w, &stats)
	assert.Equal(t, 1, stats.Stats.Count)

	w = e.json(http.MethodDelete, "/api/v1/admin/students/S001", e.adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = e.json(http.MethodGet, "/api/v1/admin/faces/stats", e.adminToken, "")
	decode(t, w, &stats)
	assert.Equal(t, 0, stats.Stats.Count)

	w = e.json(http.MethodGet, "/api/v1/admin/students/S001", e.adminToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = e.do(http.MethodGet, "/photos/S001.jpg", e.adminToken, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkRegisterAndStudentDashboard(t *testing.T) {
	e := newAPI(t)
	require.Equal(t, http.StatusCreated, e.enroll("S001", 1, encAt(0.1)).Code)
	require.Equal(t, http.StatusCreated, e.enroll("S002", 2, encAt(3)).Code)

	classPhoto := pngImage(t, 50)
	e.det.faces[string(classPhoto)] = []face.Encoding{encAt(0.15), encAt(9)}

	w := e.multipart(http.MethodPost, "/api/v1/lecturer/attendance/mark-register", e.lecturerToken, map[string]string{
		"qualification_id": fmt.Sprint(e.qualification.ID),
		"module_id":        fmt.Sprint(e.module.ID),
		"marks_S001":       "7",
		"marks_S002":       "9",
	}, classPhoto)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Session struct {
			FacesDetected  int             `json:"faces_detected"`
			Students       []model.Student `json:"students"`
			PresentCount   int             `json:"present_count"`
			AbsentCount    int             `json:"absent_count"`
			LecturerName   string          `json:"lecturer_name"`
			AttendanceTime string          `json:"attendance_time"`
		} `json:"session"`
	}
	decode(t, w, &body)
	assert.Equal(t, 2, body.Session.FacesDetected)
	require.Len(t, body.Session.Students, 1)
	assert.Equal(t, "S001", body.Session.Students[0].StudentNumber)
	assert.Equal(t, 1, body.Session.PresentCount)
	assert.Equal(t, 1, body.Session.AbsentCount)
	assert.Equal(t, "Dr Banda", body.Session.LecturerName)
	_, err := time.Parse(model.AttendanceTimeLayout, body.Session.AttendanceTime)
	assert.NoError(t, err)

	w = e.json(http.MethodGet, "/api/v1/lecturer/attendance/records?status=Present", e.lecturerToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var records struct {
		Records []model.AttendanceRecord `json:"records"`
	}
	decode(t, w, &records)
	require.Len(t, records.Records, 1)
	assert.Equal(t, "S001", records.Records[0].StudentNumber)
	assert.Equal(t, 7, records.Records[0].Marks)

	w = e.json(http.MethodGet, "/api/v1/lecturer/attendance/records?status=Late", e.lecturerToken, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	studentToken := e.login("/api/v1/auth/student/login", `{"student_username":"s002@school.test","student_password":"secret1"}`)
	w = e.json(http.MethodGet, "/api/v1/student/dashboard", studentToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var dash model.StudentDashboard
	decode(t, w, &dash)
	assert.Equal(t, "S002", dash.Student.StudentNumber)
	assert.Equal(t, model.AttendanceSummary{Present: 0, Absent: 1, TotalMarks: 0}, dash.Summary)

	w = e.json(http.MethodGet, "/api/v1/lecturer/attendance/records", studentToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMarkRegisterFromCameraCapture(t *testing.T) {
	e := newAPI(t)
	require.Equal(t, http.StatusCreated, e.enroll("S001", 1, encAt(0.1)).Code)

	capture := pngImage(t, 60)
	e.det.faces[string(capture)] = []face.Encoding{encAt(0.1)}

	w := e.multipart(http.MethodPost, "/api/v1/lecturer/attendance/mark-register", e.lecturerToken, map[string]string{
		"qualification_id": fmt.Sprint(e.qualification.ID),
		"module_id":        fmt.Sprint(e.module.ID),
		"camera_image":     "data:image/png;base64," + base64.StdEncoding.EncodeToString(capture),
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"present_count":1`)

	w = e.multipart(http.MethodPost, "/api/v1/lecturer/attendance/mark-register", e.lecturerToken, map[string]string{
		"qualification_id": fmt.Sprint(e.qualification.ID),
		"module_id":        fmt.Sprint(e.module.ID),
		"camera_image":     "data:image/png,not-base64",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_IMAGE", errCode(t, w))
}

func TestMarkRegisterWithoutPhoto(t *testing.T) {
	e := newAPI(t)
	require.Equal(t, http.StatusCreated, e.enroll("S001", 1, encAt(0.1)).Code)

	w := e.multipart(http.MethodPost, "/api/v1/lecturer/attendance/mark-register", e.lecturerToken, map[string]string{
		"qualification_id": fmt.Sprint(e.qualification.ID),
		"module_id":        fmt.Sprint(e.module.ID),
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"present_count":0`)
	assert.Contains(t, w.Body.String(), `"absent_count":1`)
}

func TestModuleMismatch(t *testing.T) {
	e := newAPI(t)
	other := e.json(http.MethodPost, "/api/v1/admin/qualifications", e.adminToken, `{"name":"Certificate in Law"}`)
	require.Equal(t, http.StatusCreated, other.Code)
	var body struct {
		Qualification model.Qualification `json:"qualification"`
	}
	decode(t, other, &body)

	w := e.json(http.MethodPost, "/api/v1/lecturer/attendance/award-marks", e.lecturerToken,
		fmt.Sprintf(`{"qualification_id":%d,"module_id":%d,"student_ids":"S001","marks":3}`, body.Qualification.ID, e.module.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MODULE_MISMATCH", errCode(t, w))
}

func TestCatalogConflicts(t *testing.T) {
	e := newAPI(t)

	w := e.json(http.MethodPost, "/api/v1/admin/qualifications", e.adminToken, `{"name":"Diploma in IT"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_NAME", errCode(t, w))

	w = e.json(http.MethodDelete, fmt.Sprintf("/api/v1/admin/qualifications/%d", e.qualification.ID), e.adminToken, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DEPENDENCY_EXISTS", errCode(t, w))

	w = e.json(http.MethodPost, "/api/v1/admin/lecturers", e.adminToken, `{"username":"banda","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_USERNAME", errCode(t, w))

	w = e.json(http.MethodGet, "/api/v1/admin/lecturers/abc", e.adminToken, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", errCode(t, w))

	w = e.json(http.MethodGet, fmt.Sprintf("/api/v1/lecturer/modules?qualification_id=%d", e.qualification.ID), e.lecturerToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var mods struct {
		Modules []model.Module `json:"modules"`
	}
	decode(t, w, &mods)
	require.Len(t, mods.Modules, 1)
	assert.Equal(t, "Networks", mods.Modules[0].Name)
}

func TestRegisters(t *testing.T) {
	e := newAPI(t)
	require.Equal(t, http.StatusCreated, e.enroll("S001", 1, encAt(0.1)).Code)

	w := e.json(http.MethodPost, "/api/v1/lecturer/registers", e.lecturerToken,
		`{"module_name":"Networks","attendance_time":"2026-03-02 08:30:00","student_ids":"S001, S404"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var saved struct {
		Register model.Register `json:"register"`
	}
	decode(t, w, &saved)
	assert.Equal(t, "Dr Banda", saved.Register.LecturerName)
	assert.Equal(t, []string{"S001", "S404"}, saved.Register.StudentNumbers)
	assert.Equal(t, 8, saved.Register.RecordedAt.Hour())

	w = e.json(http.MethodGet, fmt.Sprintf("/api/v1/lecturer/registers/%d", saved.Register.ID), e.lecturerToken, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.json(http.MethodGet, "/api/v1/lecturer/registers/999", e.lecturerToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodGet, fmt.Sprintf("/api/v1/lecturer/registers/%d/export?format=xlsx", saved.Register.ID), e.lecturerToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.FormatXLSX.ContentType(), w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "register_20260302_083000.xlsx")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w = e.do(http.MethodGet, fmt.Sprintf("/api/v1/lecturer/registers/%d/export?format=doc", saved.Register.ID), e.lecturerToken, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_EXPORT_FORMAT", errCode(t, w))

	w = e.json(http.MethodPost, "/api/v1/lecturer/registers/export?format=xlsx", e.lecturerToken,
		`{"module_name":"Networks","student_ids":"S001"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.Bytes())

	w = e.json(http.MethodGet, "/api/v1/lecturer/registers", e.lecturerToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Registers []model.Register `json:"registers"`
	}
	decode(t, w, &list)
	assert.Len(t, list.Registers, 1)
}

func TestLiveAttendanceWebSocket(t *testing.T) {
	e := newAPI(t)
	require.Equal(t, http.StatusCreated, e.enroll("S001", 1, encAt(0.1)).Code)
	require.Equal(t, http.StatusCreated, e.enroll("S002", 2, encAt(3)).Code)

	frame := pngImage(t, 70)
	e.det.faces[string(frame)] = []face.Encoding{encAt(0.12)}

	srv := httptest.NewServer(e.r)
	defer srv.Close()

	url := fmt.Sprintf("ws%s/ws/v1/lecturer/live-attendance?token=%s&qualification_id=%d&module_id=%d",
		strings.TrimPrefix(srv.URL, "http"), e.lecturerToken, e.qualification.ID, e.module.ID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var ready map[string]interface{}
	require.NoError(t, conn.ReadJSON(&ready))
	assert.Equal(t, "ready", ready["event"])

	require.NoError(t, conn.WriteJSON(map[string]string{
		"action": "frame",
		"image":  "data:image/png;base64," + base64.StdEncoding.EncodeToString(frame),
	}))
	var matched struct {
		Event          string   `json:"event"`
		FacesDetected  int      `json:"faces_detected"`
		SessionMatched []string `json:"session_matched"`
	}
	require.NoError(t, conn.ReadJSON(&matched))
	assert.Equal(t, "matched", matched.Event)
	assert.Equal(t, 1, matched.FacesDetected)
	assert.Equal(t, []string{"S001"}, matched.SessionMatched)

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "ping"}))
	var pong map[string]interface{}
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong["event"])

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "finish"}))
	var saved struct {
		Event   string `json:"event"`
		Session struct {
			PresentCount int `json:"present_count"`
			AbsentCount  int `json:"absent_count"`
		} `json:"session"`
	}
	require.NoError(t, conn.ReadJSON(&saved))
	assert.Equal(t, "saved", saved.Event)
	assert.Equal(t, 1, saved.Session.PresentCount)
	assert.Equal(t, 1, saved.Session.AbsentCount)

	w := e.json(http.MethodGet, "/api/v1/lecturer/attendance/records?student_id=S001", e.lecturerToken, "")
	var records struct {
		Records []model.AttendanceRecord `json:"records"`
	}
	decode(t, w, &records)
	require.Len(t, records.Records, 1)
	assert.Equal(t, 1, records.Records[0].Marks)
}

func TestLiveAttendanceRejectsBadTarget(t *testing.T) {
	e := newAPI(t)
	w := e.do(http.MethodGet, "/ws/v1/lecturer/live-attendance?token="+e.lecturerToken, "", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, fmt.Sprintf("/ws/v1/lecturer/live-attendance?token=%s&qualification_id=%d&module_id=999",
		e.lecturerToken, e.qualification.ID), "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
