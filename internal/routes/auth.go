package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/iris-gate/iris_gate/internal/auth"
)

// RegisterAuthRoutes wires registration, enrollment, and iris login.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, sessionAuth, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/register", h.Register)
	group.Post("/capture", sessionAuth, h.Capture)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
}
