package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/response"
	"github.com/stemsi/facetrack-backend/internal/service"
	"github.com/stemsi/facetrack-backend/internal/validator"
)

// CatalogHandler serves qualifications and the modules taught in them.
type CatalogHandler struct {
	qualificationService *service.QualificationService
	moduleService        *service.ModuleService
}

func NewCatalogHandler(qualificationService *service.QualificationService, moduleService *service.ModuleService) *CatalogHandler {
	return &CatalogHandler{qualificationService: qualificationService, moduleService: moduleService}
}

// ─── Qualifications ─────────────────────────────────────────────────

// ListQualifications godoc
// GET /api/v1/admin/qualifications
// GET /api/v1/lecturer/qualifications
func (h *CatalogHandler) ListQualifications(c *gin.Context) {
	quals, err := h.qualificationService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if quals == nil {
		quals = []model.Qualification{}
	}
	response.Success(c, http.StatusOK, gin.H{"qualifications": quals})
}

// CreateQualification godoc
// POST /api/v1/admin/qualifications
func (h *CatalogHandler) CreateQualification(c *gin.Context) {
	var req model.QualificationRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	qual, err := h.qualificationService.Create(c.Request.Context(), req)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"qualification": qual})
}

// UpdateQualification godoc
// PUT /api/v1/admin/qualifications/:id
func (h *CatalogHandler) UpdateQualification(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.QualificationRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	qual, err := h.qualificationService.Update(c.Request.Context(), id, req)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"qualification": qual})
}

// DeleteQualification godoc
// DELETE /api/v1/admin/qualifications/:id
// Fails with DEPENDENCY_EXISTS while students or modules still reference it.
func (h *CatalogHandler) DeleteQualification(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.qualificationService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "qualification deleted"})
}

// ─── Modules ────────────────────────────────────────────────────────

// ListModules godoc
// GET /api/v1/admin/modules
// GET /api/v1/lecturer/modules
// Optional ?qualification_id= filter.
func (h *CatalogHandler) ListModules(c *gin.Context) {
	modules, err := h.moduleService.List(c.Request.Context(), optionalIntQuery(c, "qualification_id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if modules == nil {
		modules = []model.Module{}
	}
	response.Success(c, http.StatusOK, gin.H{"modules": modules})
}

// CreateModule godoc
// POST /api/v1/admin/modules
func (h *CatalogHandler) CreateModule(c *gin.Context) {
	var req model.ModuleRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	mod, err := h.moduleService.Create(c.Request.Context(), req)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"module": mod})
}

// UpdateModule godoc
// PUT /api/v1/admin/modules/:id
func (h *CatalogHandler) UpdateModule(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.ModuleRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	mod, err := h.moduleService.Update(c.Request.Context(), id, req)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"module": mod})
}

// DeleteModule godoc
// DELETE /api/v1/admin/modules/:id
func (h *CatalogHandler) DeleteModule(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.moduleService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "module deleted"})
}
