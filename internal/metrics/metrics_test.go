package metrics

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

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/opportunities/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/opportunities/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	count := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/opportunities/:id", "204"))
	assert.Equal(t, float64(2), count)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "volunteerhub_http_requests_total"))
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.ApplicationCreated()
	m.ApplicationTransitioned("accepted")
	m.SideEffectFailed("pdf")
	m.EmailResult("password_reset", "sent")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.applicationsCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.applicationStatus.WithLabelValues("accepted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sideEffectFailures.WithLabelValues("pdf")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.emailsSent.WithLabelValues("password_reset", "sent")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.UserRegistered()
		m.CertificateIssued()
		m.EmailResult("x", "failed")
	})
}
