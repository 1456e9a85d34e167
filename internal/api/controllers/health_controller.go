package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"viajei/internal/logging"
	"viajei/pkg/utils"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// Dependency is a named HealthCheck contributed by the module that owns the connection.
type Dependency struct {
	Name  string
	Check HealthCheck
}

type HealthController struct {
	checks map[string]HealthCheck
}

func NewHealthController(checks map[string]HealthCheck) *HealthController {
	return &HealthController{checks: checks}
}

// Health godoc
// @Summary Liveness and dependency status
// @Tags Operations
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /health [get]
func (h *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("dependency", name).Msg("health check failed")
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	if status != http.StatusOK {
		utils.RespondErrorWithData(c, status, "Degraded", results)
		return
	}
	utils.RespondSuccess(c, gin.H{"status": "ok", "dependencies": results}, "OK")
}
