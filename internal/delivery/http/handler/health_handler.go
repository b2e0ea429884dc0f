package handler

import (
	"context"
	"time"

	"campus-recruit/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is any dependency whose liveness is reported by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	deps := make(fiber.Map, len(h.checks))
	for name, p := range h.checks {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			deps[name] = "down"
			status = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "degraded", fiber.Map{"dependencies": deps})
	}
	return response.Success(c, status, response.MessageOK, fiber.Map{"dependencies": deps})
}
