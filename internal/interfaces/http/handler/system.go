package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/showring/backend/internal/interfaces/http/dto"
	"github.com/showring/backend/internal/interfaces/http/middleware"
)

// Pinger checks a dependency such as the database
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves liveness and readiness
type SystemHandler struct {
	BaseHandler
	version   string
	startTime time.Time
	checks    map[string]Pinger
}

// NewSystemHandler creates a new SystemHandler. checks are run by Health.
func NewSystemHandler(version string, checks map[string]Pinger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: newBaseHandler(nil, nil),
		version:     version,
		startTime:   time.Now(),
		checks:      checks,
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health handles GET /health. Any failing check answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	status := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
		for name, p := range h.checks {
			if err := p.Ping(ctx); err != nil {
				resp.Checks[name] = "down"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "up"
		}
	}
	c.JSON(status, dto.NewSuccessResponse(resp, middleware.GetRequestID(c)))
}
