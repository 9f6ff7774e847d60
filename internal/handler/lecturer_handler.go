package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/response"
	"github.com/stemsi/facetrack-backend/internal/service"
	"github.com/stemsi/facetrack-backend/internal/validator"
)

type LecturerHandler struct {
	lecturerService *service.LecturerService
}

func NewLecturerHandler(lecturerService *service.LecturerService) *LecturerHandler {
	return &LecturerHandler{lecturerService: lecturerService}
}

// List godoc
// GET /api/v1/admin/lecturers
func (h *LecturerHandler) List(c *gin.Context) {
	lecturers, err := h.lecturerService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if lecturers == nil {
		lecturers = []model.Lecturer{}
	}
	response.Success(c, http.StatusOK, gin.H{"lecturers": lecturers})
}

// Create godoc
// POST /api/v1/admin/lecturers
func (h *LecturerHandler) Create(c *gin.Context) {
	var req model.CreateLecturerRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lecturer, err := h.lecturerService.Create(c.Request.Context(), req)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"lecturer": lecturer})
}

// Get godoc
// GET /api/v1/admin/lecturers/:id
func (h *LecturerHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	lecturer, err := h.lecturerService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lecturer": lecturer})
}

// Update godoc
// PUT /api/v1/admin/lecturers/:id
func (h *LecturerHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.UpdateLecturerRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lecturer, err := h.lecturerService.Update(c.Request.Context(), id, req)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lecturer": lecturer})
}

// Delete godoc
// DELETE /api/v1/admin/lecturers/:id
func (h *LecturerHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.lecturerService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "lecturer deleted"})
}
