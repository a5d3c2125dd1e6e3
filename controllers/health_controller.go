package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// HealthController reports liveness and dependency status.
type HealthController struct {
	service string
	checks  map[string]HealthCheck
}

// NewHealthController creates a HealthController. checks may be empty.
func NewHealthController(service string, checks map[string]HealthCheck) *HealthController {
	return &HealthController{service: service, checks: checks}
}

// Health handles GET /health. Any failing dependency makes the service degraded.
func (hc *HealthController) Health(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(gin.H, len(hc.checks))
	for name, check := range hc.checks {
		if err := check(checkCtx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "OK"
	if status != http.StatusOK {
		state = "DEGRADED"
	}
	ctx.JSON(status, gin.H{"status": state, "service": hc.service, "dependencies": deps})
}
