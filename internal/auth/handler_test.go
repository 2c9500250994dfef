package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/iris-gate/iris_gate/internal/middleware"
)

func setupApp(t *testing.T) (*fiber.App, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	h := NewHandler(env.svc)

	app := fiber.New()
	api := app.Group("/api/v1")
	sessionAuth := middleware.SessionAuth(env.tokens)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.Register)
	authGroup.Post("/capture", sessionAuth, h.Capture)
	authGroup.Post("/login", h.Login)

	magic := api.Group("/magic-link")
	magic.Post("/request", h.RequestMagicLink)
	magic.Get("/verify", h.VerifyMagicLink)

	return app, env
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, bearer string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp.StatusCode, payload
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestHTTPRegisterCaptureLogin(t *testing.T) {
	app, _ := setupApp(t)

	code, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register",
		`{"email":"a@x.com","full_name":"A"}`, "")
	if code != fiber.StatusCreated {
		t.Fatalf("register: expected 201, got %d", code)
	}
	token1, _ := body["access_token"].(string)
	userID, _ := body["user_id"].(string)
	if token1 == "" || userID == "" {
		t.Fatalf("register response missing token or user id: %v", body)
	}

	code, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/capture",
		`{"iris_data":"`+b64("sample-x")+`"}`, token1)
	if code != fiber.StatusOK {
		t.Fatalf("capture: expected 200, got %d", code)
	}

	code, body = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login",
		`{"email":"a@x.com","iris_data":"`+b64("sample-x")+`"}`, "")
	if code != fiber.StatusOK {
		t.Fatalf("login: expected 200, got %d", code)
	}
	if got, _ := body["user_id"].(string); got != userID {
		t.Fatalf("login resolved user %s, registered %s", got, userID)
	}

	code, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login",
		`{"email":"a@x.com","iris_data":"`+b64("sample-y")+`"}`, "")
	if code != fiber.StatusUnauthorized {
		t.Fatalf("non-matching sample: expected 401, got %d", code)
	}
}

func TestHTTPCaptureRequiresSession(t *testing.T) {
	app, _ := setupApp(t)

	code, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/capture",
		`{"iris_data":"`+b64("sample")+`"}`, "")
	if code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", code)
	}
}

func TestHTTPRegisterDuplicate(t *testing.T) {
	app, _ := setupApp(t)

	doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", `{"email":"a@x.com","full_name":"A"}`, "")
	code, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", `{"email":"a@x.com","full_name":"A"}`, "")
	if code != fiber.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", code)
	}
}

func TestHTTPLoginUnknownEmail(t *testing.T) {
	app, _ := setupApp(t)

	code, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login",
		`{"email":"nobody@x.com","iris_data":"`+b64("sample")+`"}`, "")
	if code != fiber.StatusNotFound {
		t.Fatalf("unknown email: expected 404, got %d", code)
	}
}

func TestHTTPLoginBadBase64(t *testing.T) {
	app, _ := setupApp(t)

	doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", `{"email":"a@x.com","full_name":"A"}`, "")
	code, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login",
		`{"email":"a@x.com","iris_data":"%%%not-base64%%%"}`, "")
	if code != fiber.StatusBadRequest {
		t.Fatalf("bad base64: expected 400, got %d", code)
	}
}

func TestHTTPMagicLinkFlow(t *testing.T) {
	app, env := setupApp(t)

	doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", `{"email":"a@x.com","full_name":"A"}`, "")

	code, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/magic-link/request", `{"email":"a@x.com"}`, "")
	if code != fiber.StatusOK {
		t.Fatalf("request: expected 200, got %d", code)
	}

	delivered := env.mailer.last("a@x.com")
	if delivered == "" {
		t.Fatalf("no magic link delivered")
	}

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/magic-link/verify?token="+delivered, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("verify: expected 200, got %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tok, _ := body["access_token"].(string); tok == "" {
		t.Fatalf("verify response missing session token")
	}
}

func TestHTTPMagicLinkUnknownEmail(t *testing.T) {
	app, _ := setupApp(t)

	code, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/magic-link/request", `{"email":"nobody@x.com"}`, "")
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestHTTPMagicLinkVerifyRejections(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/magic-link/verify?token=garbage", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(fiber.MethodGet, "/api/v1/magic-link/verify", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing token: expected 400, got %d", resp.StatusCode)
	}
}
