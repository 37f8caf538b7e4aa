package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/lightweight-backend/internal/middleware"
	"github.com/deppfellow/lightweight-backend/internal/server"
	"github.com/labstack/echo/v4"
)

const defaultHealthTimeout = 5 * time.Second

type pingFunc func(ctx context.Context) error

// HealthHandler reports whether the configured dependencies answer a ping.
type HealthHandler struct {
	Handler
	checks  map[string]pingFunc
	timeout time.Duration
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{
		Handler: NewHandler(s),
		checks:  make(map[string]pingFunc),
		timeout: defaultHealthTimeout,
	}

	enabled := []string{"database", "redis"}
	if obs := s.Config.Observability; obs != nil {
		if obs.HealthChecks.Timeout > 0 {
			h.timeout = obs.HealthChecks.Timeout
		}
		if len(obs.HealthChecks.Checks) > 0 {
			enabled = obs.HealthChecks.Checks
		}
	}

	for _, name := range enabled {
		switch name {
		case "database":
			if s.DB != nil {
				h.checks[name] = s.DB.Pool.Ping
			}
		case "redis":
			if s.Redis != nil {
				h.checks[name] = func(ctx context.Context) error {
					return s.Redis.Ping(ctx).Err()
				}
			}
		}
	}
	return h
}

// CheckHealth answers 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]any, len(h.checks))
	healthy := true

	for name, ping := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		checkStart := time.Now()
		err := ping(ctx)
		cancel()
		elapsed := time.Since(checkStart)

		if err != nil {
			healthy = false
			checks[name] = map[string]any{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}
			logger.Error().Err(err).Str("check", name).Dur("response_time", elapsed).Msg("health check failed")
			h.recordFailure(name, elapsed, err)
			continue
		}

		checks[name] = map[string]any{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}
		logger.Debug().Str("check", name).Dur("response_time", elapsed).Msg("health check passed")
	}

	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !healthy {
		response["status"] = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordFailure(check string, elapsed time.Duration, err error) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}
	app.RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":       check,
		"operation":        "health_check",
		"error_type":       check + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
