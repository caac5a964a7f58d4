package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(m *Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/games/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/prometheus", m.Handler())
	return r
}

func TestMiddleware_CountsByRoute(t *testing.T) {
	m := NewMetrics()
	r := newRouter(m)

	for _, path := range []string{"/games/1", "/games/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/games/:id", http.MethodGet, "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("unmatched", http.MethodGet, "404")))
}

func TestRecordHelpers(t *testing.T) {
	m := NewMetrics()

	m.RecordAuth("login", OutcomeRejected)
	m.RecordAuth("login", OutcomeRejected)
	m.RecordWrite("game", "create")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.AuthAttempts.WithLabelValues("login", OutcomeRejected)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CatalogWrites.WithLabelValues("game", "create")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := NewMetrics()
	r := newRouter(m)
	m.RecordWrite("genre", "create")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/prometheus", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "gamecatalog_catalog_writes_total"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
