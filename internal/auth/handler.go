package auth

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/iris-gate/iris_gate/internal/biometric"
)

// Handler exposes the authentication endpoints.
type Handler struct {
	svc *Service
}

// NewHandler constructs the auth HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type captureRequest struct {
	IrisData string `json:"iris_data"`
}

type loginRequest struct {
	Email    string `json:"email"`
	IrisData string `json:"iris_data"`
}

type magicLinkRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
}

func sessionJSON(s Session) sessionResponse {
	return sessionResponse{AccessToken: s.Token, TokenType: "bearer", UserID: s.UserID, Email: s.Email}
}

// Register creates a user and returns their first session token.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	session, err := h.svc.Register(c.UserContext(), req.Email, req.FullName)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(sessionJSON(session))
}

// Capture enrolls the authenticated user's iris sample.
func (h *Handler) Capture(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return fiber.NewError(http.StatusUnauthorized, "invalid authentication credentials")
	}

	var req captureRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	sample, err := base64.StdEncoding.DecodeString(req.IrisData)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "iris_data must be base64 encoded")
	}

	if err := h.svc.Enroll(c.UserContext(), userID, sample); err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "iris captured successfully"})
}

// Login authenticates by iris and returns a session token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	sample, err := base64.StdEncoding.DecodeString(req.IrisData)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "iris_data must be base64 encoded")
	}

	session, err := h.svc.LoginIris(c.UserContext(), req.Email, sample)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(sessionJSON(session))
}

// RequestMagicLink issues a login link for a registered email.
func (h *Handler) RequestMagicLink(c *fiber.Ctx) error {
	var req magicLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RequestMagicLink(c.UserContext(), req.Email); err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "magic link sent to your email"})
}

// VerifyMagicLink exchanges a magic-link token for a session token.
func (h *Handler) VerifyMagicLink(c *fiber.Ctx) error {
	raw := c.Query("token")
	if raw == "" {
		return fiber.NewError(http.StatusBadRequest, "token query parameter is required")
	}
	session, err := h.svc.VerifyMagicLink(c.UserContext(), raw)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(sessionJSON(session))
}

// httpError maps the service taxonomy onto HTTP status codes.
func httpError(err error) *fiber.Error {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, biometric.ErrExtraction),
		errors.Is(err, ErrEmailTaken), errors.Is(err, ErrNotEnrolled):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAuthenticationFailed), errors.Is(err, ErrInvalidToken):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrTemplateCorrupted):
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "internal error")
	}
}
