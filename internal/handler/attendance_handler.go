package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/facetrack-backend/internal/middleware"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/response"
	"github.com/stemsi/facetrack-backend/internal/service"
	"github.com/stemsi/facetrack-backend/internal/validator"
)

// marksFieldPrefix prefixes the per-student marks fields of a register form.
const marksFieldPrefix = "marks_"

const dateLayout = "2006-01-02"

// AttendanceHandler handles photo-based attendance marking for lecturers.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
	studentService    *service.StudentService
	photoService      *service.PhotoService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(
	attendanceService *service.AttendanceService,
	studentService *service.StudentService,
	photoService *service.PhotoService,
) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		studentService:    studentService,
		photoService:      photoService,
	}
}

// Identify godoc
// POST /api/v1/lecturer/attendance/identify
// Reports the enrolled students found in a photo without recording anything.
func (h *AttendanceHandler) Identify(c *gin.Context) {
	image, ok := requireImage(c, h.photoService)
	if !ok {
		return
	}

	result, err := h.attendanceService.Identify(c.Request.Context(), image)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// MarkRegister godoc
// POST /api/v1/lecturer/attendance/mark-register
// Records a session for every student of the qualification. The photo comes
// from "image" or "camera_image"; marks come from marks_<student_id> fields.
// Without a photo every student is recorded Absent.
func (h *AttendanceHandler) MarkRegister(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.MarkRegisterRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	image, ok := readImage(c, h.photoService)
	if !ok {
		return
	}

	session, err := h.attendanceService.MarkRegister(c.Request.Context(),
		claims.UserID, req.QualificationID, req.ModuleID, image, formMarks(c))
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// AwardMarks godoc
// POST /api/v1/lecturer/attendance/award-marks
// Marks the listed students present with the same marks.
func (h *AttendanceHandler) AwardMarks(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.AwardMarksRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.attendanceService.AwardMarks(c.Request.Context(),
		claims.UserID, req.QualificationID, req.ModuleID, service.SplitStudentIDs(req.StudentIDs), req.Marks)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// Live godoc
// POST /api/v1/lecturer/attendance/live
// Marks a register from a single JSON camera capture.
func (h *AttendanceHandler) Live(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.LiveAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.attendanceService.LiveCapture(c.Request.Context(), claims.UserID, req)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// Records godoc
// GET /api/v1/lecturer/attendance/records
// Filters: student_id, module_id, qualification_id, status, from, to (YYYY-MM-DD).
func (h *AttendanceHandler) Records(c *gin.Context) {
	filter, ok := h.recordFilter(c)
	if !ok {
		return
	}
	page, perPage := pageParams(c)

	records, pagination, err := h.attendanceService.Records(c.Request.Context(), filter, page, perPage)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"records": records}, pagination)
}

func (h *AttendanceHandler) recordFilter(c *gin.Context) (model.AttendanceFilter, bool) {
	filter := model.AttendanceFilter{
		ModuleID:        optionalIntQuery(c, "module_id"),
		QualificationID: optionalIntQuery(c, "qualification_id"),
	}
	fields := map[string]string{}

	if number := strings.TrimSpace(c.Query("student_id")); number != "" {
		st, err := h.studentService.Get(c.Request.Context(), number)
		if err != nil {
			if errors.Is(err, service.ErrStudentNotFound) {
				// Unknown students simply have no records.
				none := 0
				filter.StudentID = &none
			} else {
				response.InternalError(c, err)
				return filter, false
			}
		} else {
			filter.StudentID = &st.ID
		}
	}

	switch status := model.AttendanceStatus(c.Query("status")); status {
	case "":
	case model.StatusPresent, model.StatusAbsent:
		filter.Status = status
	default:
		fields["status"] = "status must be Present or Absent"
	}

	if from := c.Query("from"); from != "" {
		t, err := time.ParseInLocation(dateLayout, from, time.Local)
		if err != nil {
			fields["from"] = "from must be a date (YYYY-MM-DD)"
		} else {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		t, err := time.ParseInLocation(dateLayout, to, time.Local)
		if err != nil {
			fields["to"] = "to must be a date (YYYY-MM-DD)"
		} else {
			// Inclusive of the whole day.
			end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			filter.To = &end
		}
	}

	if len(fields) > 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return filter, false
	}
	return filter, true
}

// formMarks collects marks_<student_id> fields. Non-numeric values count as 0.
func formMarks(c *gin.Context) map[string]int {
	marks := map[string]int{}
	for key, values := range c.Request.PostForm {
		number, ok := strings.CutPrefix(key, marksFieldPrefix)
		if !ok || number == "" || len(values) == 0 {
			continue
		}
		m, err := strconv.Atoi(strings.TrimSpace(values[0]))
		if err != nil {
			continue
		}
		marks[number] = m
	}
	return marks
}
