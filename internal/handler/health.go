package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/lead-intake/internal/middleware"
	"github.com/deppfellow/lead-intake/internal/server"
)

// HealthHandler reports liveness and, when configured, whether the RPC
// endpoint answers.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns 200 when every enabled check passes, 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true
	obs := h.server.Config.Observability

	if obs != nil && obs.HealthChecks.Enabled && obs.HasCheck("rpc") {
		ctx, cancel := context.WithTimeout(c.Request().Context(), obs.HealthChecks.Timeout)
		defer cancel()

		rpcStart := time.Now()

		if err := h.server.RPC.Ping(ctx); err != nil {
			checks["rpc"] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(rpcStart).String(),
			}

			isHealthy = false

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(rpcStart)).
				Msg("rpc health check failed")

			h.recordHealthCheckError("rpc", "rpc_unhealthy", time.Since(rpcStart))
		} else {
			checks["rpc"] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(rpcStart).String(),
			}

			logger.Debug().
				Dur("response_time", time.Since(rpcStart)).
				Msg("rpc health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordHealthCheckError(checkType, errorType string, elapsed time.Duration) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
			"check_type":       checkType,
			"operation":        "health_check",
			"error_type":       errorType,
			"response_time_ms": elapsed.Milliseconds(),
		})
	}
}
