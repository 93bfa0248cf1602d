package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/showring/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics_UsesRouteTemplate(t *testing.T) {
	m := telemetry.NewMetrics("test")
	engine := gin.New()
	engine.Use(HTTPMetrics(m, "/metrics"))
	engine.GET("/judge-contract/:token", func(c *gin.Context) { c.Status(http.StatusGone) })
	engine.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(engine, http.MethodGet, "/judge-contract/secret-token", nil)
	serve(engine, http.MethodGet, "/metrics", nil)
	serve(engine, http.MethodGet, "/nowhere", nil)

	expected := `
# HELP test_http_requests_total HTTP requests by method, route and status.
# TYPE test_http_requests_total counter
test_http_requests_total{method="GET",route="/judge-contract/:token",status="410"} 1
test_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_http_requests_total"))
}

func TestTracing_DisabledIsEmpty(t *testing.T) {
	assert.Empty(t, Tracing(TracingConfig{Enabled: false}))
	assert.Len(t, Tracing(TracingConfig{Enabled: true, ServiceName: "test"}), 2)
}
