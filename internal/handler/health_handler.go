package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Pinger is an interface for health check ping operations.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness probes for the booking API.
type HealthHandler struct {
	pool Pinger
}

// NewHealthHandler creates a new HealthHandler over the given database pool.
func NewHealthHandler(pool Pinger) *HealthHandler {
	return &HealthHandler{pool: pool}
}

// Check pings the database. A booking platform with no database has
// nothing to offer, so an unreachable database means 503.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.pool.Ping(c.Context()); err != nil {
		log.Error().Err(err).Msg("health check failed: database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "unreachable",
		})
	}
	return c.JSON(fiber.Map{
		"status":   "healthy",
		"database": "ok",
	})
}
