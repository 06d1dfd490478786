package middleware

import (
	"net/http"
	"net/http/httptest"
	"sql_practice_backend/internal/util"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), AccessLog(), Recovery())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(util.RequestIDKey)) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func TestRequestID(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))
	generated := w.Header().Get(util.RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(util.RequestIDHeader, existing)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, existing, w.Header().Get(util.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(util.RequestIDHeader, "not a uuid\r\n")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid\r\n", w.Header().Get(util.RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	r := newEngine()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}
