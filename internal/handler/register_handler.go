package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/facetrack-backend/internal/middleware"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/response"
	"github.com/stemsi/facetrack-backend/internal/service"
	"github.com/stemsi/facetrack-backend/internal/validator"
)

// RegisterHandler saves and exports attendance registers.
type RegisterHandler struct {
	registerService *service.RegisterService
	lecturerService *service.LecturerService
}

// NewRegisterHandler creates a new RegisterHandler.
func NewRegisterHandler(registerService *service.RegisterService, lecturerService *service.LecturerService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService, lecturerService: lecturerService}
}

// Save godoc
// POST /api/v1/lecturer/registers
// lecturer_name defaults to the caller and attendance_time to now.
func (h *RegisterHandler) Save(c *gin.Context) {
	var req model.SaveRegisterRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	name, ok := h.callerName(c)
	if !ok {
		return
	}

	reg, err := h.registerService.Save(c.Request.Context(), req, name)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"register": reg})
}

// List godoc
// GET /api/v1/lecturer/registers
func (h *RegisterHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)

	regs, pagination, err := h.registerService.List(c.Request.Context(), page, perPage)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if regs == nil {
		regs = []model.Register{}
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"registers": regs}, pagination)
}

// Get godoc
// GET /api/v1/lecturer/registers/:id
func (h *RegisterHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	reg, err := h.registerService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"register": reg})
}

// ExportForm godoc
// POST /api/v1/lecturer/registers/export?format=pdf|xlsx
// Renders a register straight from the submitted form without saving it.
func (h *RegisterHandler) ExportForm(c *gin.Context) {
	var req model.SaveRegisterRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	name, ok := h.callerName(c)
	if !ok {
		return
	}

	format := c.Query("format")
	if format == "" {
		format = c.PostForm("format")
	}
	export, err := h.registerService.ExportForm(c.Request.Context(), req, name, format)
	if err != nil {
		failService(c, err)
		return
	}
	response.Attachment(c, export.FileName, export.ContentType, export.Data)
}

// ExportSaved godoc
// GET /api/v1/lecturer/registers/:id/export?format=pdf|xlsx
func (h *RegisterHandler) ExportSaved(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	export, err := h.registerService.ExportSaved(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		failService(c, err)
		return
	}
	response.Attachment(c, export.FileName, export.ContentType, export.Data)
}

// callerName resolves the display name of the calling lecturer.
func (h *RegisterHandler) callerName(c *gin.Context) (string, bool) {
	claims := middleware.GetClaims(c)
	lecturer, err := h.lecturerService.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		failService(c, err)
		return "", false
	}
	return lecturer.Name, true
}
