package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTraceTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("trace_id"))
	})
	return r
}

func TestTraceIDKeepsCallerSuppliedID(t *testing.T) {
	r := newTraceTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(traceHeader, "caller-trace-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "caller-trace-42", w.Header().Get(traceHeader))
	assert.Equal(t, "caller-trace-42", w.Body.String())
}

func TestTraceIDGeneratedWhenMissing(t *testing.T) {
	r := newTraceTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	id := w.Header().Get(traceHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())
}
