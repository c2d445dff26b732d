package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(handler gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	router := gin.New()
	router.GET("/", handler)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestSendSuccess(t *testing.T) {
	w, body := perform(func(c *gin.Context) {
		SendSuccess(c, gin.H{"value": 42})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name         string
		handler      gin.HandlerFunc
		expectedCode int
		expectedErr  string
	}{
		{"validation", func(c *gin.Context) { SendValidationError(c, "bad input", "id must be numeric") },
			http.StatusBadRequest, ErrCodeValidation},
		{"not found", func(c *gin.Context) { SendNotFound(c, "no such player") },
			http.StatusNotFound, ErrCodeNotFound},
		{"unavailable", func(c *gin.Context) { SendUnavailable(c, "warming up") },
			http.StatusServiceUnavailable, ErrCodeUnavailable},
		{"internal", func(c *gin.Context) { SendInternalError(c, "boom") },
			http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := perform(tt.handler)
			assert.Equal(t, tt.expectedCode, w.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.expectedErr, body.Error.Code)
		})
	}
}

func TestAppErrorError(t *testing.T) {
	assert.Equal(t, "bad input: details", NewAppError(ErrCodeValidation, "bad input", "details").Error())
	assert.Equal(t, "bad input", NewAppError(ErrCodeValidation, "bad input").Error())
}
