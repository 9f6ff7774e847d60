package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/facetrack-backend/internal/service"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFailServiceMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{service.ErrStudentNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("enroll: %w", service.ErrDuplicateFace), http.StatusConflict, "DUPLICATE_FACE"},
		{service.ErrDependencyExists, http.StatusConflict, "DEPENDENCY_EXISTS"},
		{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		failService(c, tt.err)

		assert.Equal(t, tt.status, w.Code, tt.err.Error())
		assert.Contains(t, w.Body.String(), `"code":"`+tt.code+`"`)
	}
}

func TestFormMarks(t *testing.T) {
	form := url.Values{
		"marks_S001":       {"7"},
		"marks_S002":       {" 3 "},
		"marks_S003":       {"abc"},
		"marks_":           {"5"},
		"qualification_id": {"1"},
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	_ = c.Request.ParseForm()

	assert.Equal(t, map[string]int{"S001": 7, "S002": 3}, formMarks(c))
}

func TestOptionalIntQuery(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?module_id=4&qualification_id=-1&x=abc", nil)

	if v := optionalIntQuery(c, "module_id"); assert.NotNil(t, v) {
		assert.Equal(t, 4, *v)
	}
	assert.Nil(t, optionalIntQuery(c, "qualification_id"))
	assert.Nil(t, optionalIntQuery(c, "x"))
	assert.Nil(t, optionalIntQuery(c, "missing"))
}
