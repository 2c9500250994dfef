package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/iris-gate/iris_gate/internal/token"
)

func setupSessionApp(t *testing.T) (*fiber.App, *token.Service) {
	t.Helper()
	tokens := token.NewService("middleware-test-secret", time.Hour, time.Hour)

	app := fiber.New()
	app.Get("/protected", SessionAuth(tokens), func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		return c.JSON(fiber.Map{"user_id": uid})
	})
	return app, tokens
}

func TestSessionAuthMissingHeader(t *testing.T) {
	app, _ := setupSessionApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/protected", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestSessionAuthValidToken(t *testing.T) {
	app, tokens := setupSessionApp(t)

	tok, err := tokens.IssueSession("user-7")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestSessionAuthRejectsMagicLinkToken(t *testing.T) {
	app, tokens := setupSessionApp(t)

	tok, err := tokens.IssueMagicLink("a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("magic-link token accepted as session: %d", resp.StatusCode)
	}
}
