package controllers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthController serves GET /healthz with the cache status.
func (sc *SearchController) HealthController(c *fiber.Ctx) error {
	if sc.Cache == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
		})
	}

	stats := sc.Cache.Stats()
	status := "ok"
	if stats.Records == 0 {
		status = "degraded"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":         status,
		"cached_records": stats.Records,
		"last_refresh":   stats.LastRefresh,
		"last_error":     stats.LastError,
	})
}
