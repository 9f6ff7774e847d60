package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/facetrack-backend/internal/response"
	"github.com/stemsi/facetrack-backend/internal/service"
)

// FaceHandler exposes the in-memory face index and stored student photos.
type FaceHandler struct {
	faceService  *service.FaceIndexService
	photoService *service.PhotoService
}

func NewFaceHandler(faceService *service.FaceIndexService, photoService *service.PhotoService) *FaceHandler {
	return &FaceHandler{faceService: faceService, photoService: photoService}
}

// Reload godoc
// POST /api/v1/admin/faces/reload
// Rebuilds the index from the database and tells other instances to do the same.
func (h *FaceHandler) Reload(c *gin.Context) {
	if err := h.faceService.Refresh(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": h.faceService.Stats()})
}

// Stats godoc
// GET /api/v1/admin/faces/stats
func (h *FaceHandler) Stats(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"stats": h.faceService.Stats()})
}

// Photo godoc
// GET /photos/:file
// Serves a student photo to admins and lecturers.
func (h *FaceHandler) Photo(c *gin.Context) {
	path, ok := h.photoService.Path(c.Param("file"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if _, err := os.Stat(path); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	c.File(path)
}
