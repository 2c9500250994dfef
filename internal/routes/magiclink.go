package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/iris-gate/iris_gate/internal/auth"
)

// RegisterMagicLinkRoutes wires the email fallback login flow.
func RegisterMagicLinkRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/magic-link")
	if rateLimiter != nil {
		group.Post("/request", rateLimiter, h.RequestMagicLink)
	} else {
		group.Post("/request", h.RequestMagicLink)
	}
	group.Get("/verify", h.VerifyMagicLink)
}
