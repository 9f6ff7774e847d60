package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/facetrack-backend/internal/middleware"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/response"
	"github.com/stemsi/facetrack-backend/internal/service"
)

// StudentPortalHandler serves a logged-in student's own data.
type StudentPortalHandler struct {
	attendanceService *service.AttendanceService
}

func NewStudentPortalHandler(attendanceService *service.AttendanceService) *StudentPortalHandler {
	return &StudentPortalHandler{attendanceService: attendanceService}
}

// Dashboard godoc
// GET /api/v1/student/dashboard
// Profile, every attendance record newest first, and totals.
func (h *StudentPortalHandler) Dashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)

	dash, err := h.attendanceService.Dashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		failService(c, err)
		return
	}
	if dash.Records == nil {
		dash.Records = []model.AttendanceRecord{}
	}
	response.Success(c, http.StatusOK, dash)
}

// Records godoc
// GET /api/v1/student/attendance-records
func (h *StudentPortalHandler) Records(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, perPage := pageParams(c)

	studentID := claims.UserID
	filter := model.AttendanceFilter{
		StudentID: &studentID,
		ModuleID:  optionalIntQuery(c, "module_id"),
	}
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
