package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/response"
	"github.com/stemsi/facetrack-backend/internal/service"
	"github.com/stemsi/facetrack-backend/internal/validator"
)

// StudentHandler handles student enrollment and management.
type StudentHandler struct {
	studentService *service.StudentService
	photoService   *service.PhotoService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService, photoService *service.PhotoService) *StudentHandler {
	return &StudentHandler{studentService: studentService, photoService: photoService}
}

// Enroll godoc
// POST /api/v1/admin/students
// Enrolls a student from a multipart form with a face photo in "image".
func (h *StudentHandler) Enroll(c *gin.Context) {
	var req model.EnrollStudentRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	image, ok := requireImage(c, h.photoService)
	if !ok {
		return
	}

	student, err := h.studentService.Enroll(c.Request.Context(), req, image)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// List godoc
// GET /api/v1/admin/students
// GET /api/v1/lecturer/students
// Supports ?qualification_id=, ?search=, ?page= and ?per_page=.
func (h *StudentHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	filter := model.StudentFilter{
		QualificationID: optionalIntQuery(c, "qualification_id"),
		Search:          strings.TrimSpace(c.Query("search")),
	}

	students, pagination, err := h.studentService.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if students == nil {
		students = []model.Student{}
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": students}, pagination)
}

// Get godoc
// GET /api/v1/admin/students/:student_id
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.studentService.Get(c.Request.Context(), c.Param("student_id"))
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// Update godoc
// PUT /api/v1/admin/students/:student_id
// A new photo in "image" replaces the stored face.
func (h *StudentHandler) Update(c *gin.Context) {
	var req model.UpdateStudentRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	image, ok := readImage(c, h.photoService)
	if !ok {
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), c.Param("student_id"), req, image)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// Delete godoc
// DELETE /api/v1/admin/students/:student_id
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.studentService.Delete(c.Request.Context(), c.Param("student_id")); err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "student deleted"})
}
