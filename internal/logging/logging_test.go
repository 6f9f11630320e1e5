package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emanuelaromano/book-manager/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonLogger(buf *bytes.Buffer) *logrus.Logger {
	return newLogger(buf, config.Log{Level: "debug", Format: "json"}, false)
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &out))
	return out
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer

	log := newLogger(&buf, config.Log{Level: "warn"}, true)
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
	assert.Equal(t, logrus.WarnLevel, log.Level)

	log = newLogger(&buf, config.Log{Level: "nonsense"}, false)
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	assert.Equal(t, logrus.InfoLevel, log.Level)

	log = newLogger(&buf, config.Log{Format: "text"}, true)
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(jsonLogger(&buf)))
	router.GET("/api/books", func(c *gin.Context) {
		AddFields(c, logrus.Fields{"user_id": 7})
		c.JSON(http.StatusOK, []string{})
	})
	router.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	t.Run("generates request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))

		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		line := lastLine(t, &buf)
		assert.Equal(t, "request completed", line["msg"])
		assert.Equal(t, "GET", line["method"])
		assert.Equal(t, "/api/books", line["path"])
		assert.Equal(t, float64(200), line["status"])
		assert.Equal(t, float64(7), line["user_id"])
		assert.Equal(t, w.Header().Get(RequestIDHeader), line["request_id"])
	})

	t.Run("propagates incoming request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		line := lastLine(t, &buf)
		assert.Equal(t, "abc-123", line["request_id"])
		assert.Equal(t, "warning", line["level"])
	})

	t.Run("replaces oversized request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
		router.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestFromContext_Fallback(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, FromContext(c))
}

func TestGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf)
	log.SetLevel(logrus.InfoLevel)
	gl := NewGormLogger(log)

	sql := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "missing rows stay below info")

	gl.Trace(context.Background(), time.Now(), sql, errors.New("disk I/O error"))
	line := lastLine(t, &buf)
	assert.Equal(t, "query failed", line["msg"])
	assert.Equal(t, "SELECT 1", line["sql"])

	buf.Reset()
	gl.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Equal(t, "slow query", lastLine(t, &buf)["msg"])

	buf.Reset()
	gl.LogMode(logger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("ignored"))
	assert.Empty(t, buf.String())
}
