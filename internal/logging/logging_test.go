package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("catalog", "1.0.0", "json", "info", &buf)

	logger.Info("hello", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "catalog", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Equal(t, "value", entry["key"])
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("catalog", "dev", "text", "info", &buf)

	logger.Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "service=catalog")
}

func TestSetup_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("catalog", "dev", "json", "warn", &buf)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(Setup("catalog", "dev", "json", "debug", &buf)))
	router.GET("/games/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/games/7", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/games/:id", entry["path"])
	assert.EqualValues(t, http.StatusNotFound, entry["status"])
}
