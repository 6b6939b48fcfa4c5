package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotent(t *testing.T) {
	require.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	Init()
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(MetricsMiddleware())
	g.POST("/api/search", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	g.GET("/metrics", PrometheusHandler())

	before := testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodPost, "/api/search", "400"))
	g.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/search", nil))
	after := testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodPost, "/api/search", "400"))
	require.Equal(t, before+1, after)

	RoadmapGenerations.WithLabelValues(OutcomeFormatError).Inc()

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `roadmap_generations_total{outcome="format_error"}`)
}
