package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, slog.LevelDebug)

	r := gin.New()
	r.Use(RequestID(), LoggerMiddleware(logger), ContextLogger(logger))
	r.GET("/boom", func(c *gin.Context) {
		GetLoggerFromContext(c).Info("inside")
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inside, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inside))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	assert.Equal(t, "req-1", inside["request_id"])
	assert.Equal(t, "ERROR", access["level"])
	assert.Equal(t, float64(500), access["status_code"])
}

func TestRequestID_Generated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, slog.LevelInfo).With("component", "test").LogError(errors.New("disk full"), "save failed", "id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "disk full", line["error"])
	assert.Equal(t, "test", line["component"])
	assert.Equal(t, float64(7), line["id"])
}
