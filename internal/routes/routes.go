package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/iris-gate/iris_gate/internal/audit"
	"github.com/iris-gate/iris_gate/internal/auth"
	"github.com/iris-gate/iris_gate/internal/biometric"
	"github.com/iris-gate/iris_gate/internal/config"
	"github.com/iris-gate/iris_gate/internal/delivery"
	"github.com/iris-gate/iris_gate/internal/identity"
	"github.com/iris-gate/iris_gate/internal/middleware"
	"github.com/iris-gate/iris_gate/internal/token"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLog(d.Logger))

	RegisterHealthRoutes(app, d)

	// Stores fall back to memory in dev so the server runs standalone.
	var users identity.Repository
	var recorder audit.Recorder
	if d.DB != nil {
		users = identity.NewPostgresRepository(d.DB)
		recorder = audit.NewPostgresRecorder(d.DB)
	} else {
		users = identity.NewMemoryRepository()
		recorder = audit.NewInMemory()
	}

	cipher, err := biometric.NewCipher(d.Cfg.MasterSecret)
	if err != nil {
		return err
	}
	comparator, err := biometric.NewComparator(d.Cfg.MatchStrategy, d.Cfg.MatchThreshold)
	if err != nil {
		return err
	}
	engine := biometric.NewEngine(comparator, d.Cfg.MinMatchQuality)
	tokens := token.NewService(d.Cfg.MasterSecret, d.Cfg.SessionTTL, d.Cfg.MagicLinkTTL)

	var mailer delivery.Mailer
	if d.Cfg.IsDev() || d.Cfg.SMTPHost == "" {
		mailer = delivery.NewLogMailer(d.Logger, d.Cfg.MagicLinkBaseURL)
	} else {
		mailer = &delivery.SMTPMailer{
			Host:     d.Cfg.SMTPHost,
			Port:     d.Cfg.SMTPPort,
			Sender:   d.Cfg.SMTPSender,
			Password: d.Cfg.SMTPPassword,
			BaseURL:  d.Cfg.MagicLinkBaseURL,
			TTLNote:  d.Cfg.MagicLinkTTL.String(),
		}
	}

	authSvc := auth.NewService(users, biometric.DigestExtractor{}, cipher, engine, tokens, mailer, recorder, d.Logger)
	authHandler := auth.NewHandler(authSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	sessionAuth := middleware.SessionAuth(tokens)
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.RateLimitPerMin)

	RegisterAuthRoutes(api, authHandler, sessionAuth, rateLimiter)
	RegisterMagicLinkRoutes(api, authHandler, rateLimiter)

	// Session-protected profile endpoint.
	api.Get("/me", sessionAuth, func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.SendStatus(http.StatusUnauthorized)
		}
		user, err := users.FindByID(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}
		return c.JSON(fiber.Map{
			"user_id":    user.ID,
			"email":      user.Email,
			"full_name":  user.FullName,
			"status":     user.Status,
			"created_at": user.CreatedAt,
		})
	})

	return nil
}
