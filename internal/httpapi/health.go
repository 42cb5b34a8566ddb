package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"casesearch/pkg/api"
	"casesearch/pkg/models"
	"casesearch/pkg/reasoner"
)

var healthService = api.NewHealthService()

type healthResponse struct {
	Status string          `json:"status"`
	Cache  string          `json:"cache"`
	System *api.SystemInfo `json:"system,omitempty"`
	Uptime string          `json:"uptime,omitempty"`
}

// getHealth handles GET /health: a liveness probe that also verifies the
// shared cache backend is reachable, since every pipeline stage depends on
// it (reasoner cache/lock/circuit breaker, scheduler carry state, stale
// fallback recall). ?details=1 adds process-level CPU/memory/goroutine
// stats for operator dashboards.
func (s *Server) getHealth(c *fiber.Ctx) error {
	resp := healthResponse{Status: "ok", Cache: "ok"}
	if _, err := s.cache.Increment(c.Context(), "health:ping", time.Minute); err != nil {
		resp.Cache = "unreachable"
		resp.Status = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}

	if c.QueryBool("details", false) {
		if details, err := healthService.GetHealth(c.Context(), s.cfg.Environment, true); err == nil {
			resp.System = details.System
			resp.Uptime = details.Uptime
		}
	}

	return c.JSON(resp)
}

type bedrockHealthResponse struct {
	Status    string `json:"status"`
	Mode      string `json:"mode"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// getHealthBedrock handles GET /api/health/bedrock: a direct probe of the
// reasoner backend with a caller-settable timeout, bypassing the
// orchestrator's cache/circuit-breaker/semaphore machinery entirely so it
// reports the backend's actual live reachability.
func (s *Server) getHealthBedrock(c *fiber.Ctx) error {
	timeoutMs := c.QueryInt("timeoutMs", 3000)
	if timeoutMs <= 0 || timeoutMs > 15000 {
		timeoutMs = 3000
	}

	ctx, cancel := context.WithTimeout(c.Context(), time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.reasonerBackend.Generate(ctx, reasoner.Input{
		Pass:         models.ReasonerPassOne,
		CleanedQuery: "health probe reachability check placeholder",
	})
	latency := time.Since(start).Milliseconds()

	resp := bedrockHealthResponse{
		Mode:      string(s.reasonerBackend.Name()),
		LatencyMs: latency,
	}
	if err != nil {
		resp.Status = "degraded"
		resp.Error = err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	resp.Status = "ok"
	return c.JSON(resp)
}
