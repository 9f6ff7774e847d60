package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/facetrack-backend/internal/face"
	"github.com/stemsi/facetrack-backend/internal/response"
	"github.com/stemsi/facetrack-backend/internal/service"
)

// errorStatus maps service errors to HTTP statuses and error codes.
var errorStatus = []struct {
	err    error
	status int
	code   response.ErrCode
}{
	{service.ErrStudentNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrLecturerNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrQualificationNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrModuleNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrRegisterNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrDuplicateStudentID, http.StatusConflict, response.ErrDuplicateStudentID},
	{service.ErrDuplicateFace, http.StatusConflict, response.ErrDuplicateFace},
	{service.ErrDuplicateUsername, http.StatusConflict, response.ErrDuplicateUser},
	{service.ErrDuplicateName, http.StatusConflict, response.ErrDuplicateName},
	{service.ErrDependencyExists, http.StatusConflict, response.ErrDependencyExists},
	{service.ErrNoFaceDetected, http.StatusBadRequest, response.ErrNoFaceDetected},
	{service.ErrModuleMismatch, http.StatusBadRequest, response.ErrModuleMismatch},
	{service.ErrInvalidImage, http.StatusBadRequest, response.ErrInvalidImage},
	{service.ErrUnsupportedFileType, http.StatusBadRequest, response.ErrUnsupportedFile},
	{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge},
	{service.ErrUnsupportedFormat, http.StatusBadRequest, response.ErrUnsupportedFmt},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
}

// failService writes the response for err. Unknown errors are logged and
// reported as 500.
func failService(c *gin.Context, err error) {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}
	response.InternalError(c, err)
}

func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	return page, perPage
}

// optionalIntQuery returns nil when key is absent or not a positive integer.
func optionalIntQuery(c *gin.Context, key string) *int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return nil
	}
	return &v
}

// readImage loads the photo of a request from the "image" file field, or
// from the camera_image data URL field. ok is false when a response has
// already been written. A request with neither returns nil data.
func readImage(c *gin.Context, photos *service.PhotoService) ([]byte, bool) {
	if header, err := c.FormFile("image"); err == nil {
		data, err := photos.ReadUpload(header)
		if err != nil {
			failService(c, err)
			return nil, false
		}
		return data, true
	}

	if dataURL := c.PostForm("camera_image"); dataURL != "" {
		data, err := face.DecodeDataURL(dataURL)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidImage)
			return nil, false
		}
		if err := photos.CheckImage(data); err != nil {
			failService(c, err)
			return nil, false
		}
		return data, true
	}
	return nil, true
}

// requireImage is readImage for endpoints that cannot work without a photo.
func requireImage(c *gin.Context, photos *service.PhotoService) ([]byte, bool) {
	data, ok := readImage(c, photos)
	if !ok {
		return nil, false
	}
	if data == nil {
		response.Fail(c, http.StatusBadRequest, response.ErrImageRequired)
		return nil, false
	}
	return data, true
}
