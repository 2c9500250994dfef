package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName       = "IrisGate"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultShutdownDelay = 10 * time.Second

	// Session tokens live for 8 days, magic links for 15 minutes.
	defaultSessionTTL   = 8 * 24 * time.Hour
	defaultMagicLinkTTL = 15 * time.Minute

	defaultMinMatchQuality = 0.25
	defaultMatchThreshold  = 0.25
	defaultMatchStrategy   = "exact"

	defaultMagicLinkBaseURL = "http://localhost:3000"
	defaultRateLimitPerMin  = 5
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration

	// MasterSecret is the single process-wide secret: it signs bearer
	// tokens and feeds the KDF that derives the template sealing key.
	MasterSecret string

	SessionTTL   time.Duration
	MagicLinkTTL time.Duration

	MinMatchQuality float64
	MatchStrategy   string
	MatchThreshold  float64

	MagicLinkBaseURL string
	RateLimitPerMin  int

	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPPassword string
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:          getEnv("APP_NAME", defaultAppName),
		AppEnv:           getEnv("APP_ENV", defaultAppEnv),
		Port:             getEnv("PORT", defaultPort),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		ShutdownPeriod:   defaultShutdownDelay,
		MasterSecret:     os.Getenv("MASTER_SECRET"),
		SessionTTL:       defaultSessionTTL,
		MagicLinkTTL:     defaultMagicLinkTTL,
		MinMatchQuality:  defaultMinMatchQuality,
		MatchStrategy:    strings.ToLower(getEnv("MATCH_STRATEGY", defaultMatchStrategy)),
		MatchThreshold:   defaultMatchThreshold,
		MagicLinkBaseURL: getEnv("MAGIC_LINK_BASE_URL", defaultMagicLinkBaseURL),
		RateLimitPerMin:  defaultRateLimitPerMin,
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPSender:       getEnv("SMTP_SENDER", "noreply@example.com"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}

	if v := os.Getenv("MAGIC_LINK_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MAGIC_LINK_TTL: %w", err)
		}
		cfg.MagicLinkTTL = d
	}

	if v := os.Getenv("MIN_MATCH_QUALITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			return Config{}, fmt.Errorf("invalid MIN_MATCH_QUALITY: %q", v)
		}
		cfg.MinMatchQuality = f
	}

	if v := os.Getenv("MATCH_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			return Config{}, fmt.Errorf("invalid MATCH_THRESHOLD: %q", v)
		}
		cfg.MatchThreshold = f
	}

	if v := os.Getenv("RATE_LIMIT_PER_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_PER_MIN: %w", err)
		}
		cfg.RateLimitPerMin = n
	}

	switch cfg.MatchStrategy {
	case "exact", "hamming":
	default:
		return Config{}, fmt.Errorf("invalid MATCH_STRATEGY: %q (want exact or hamming)", cfg.MatchStrategy)
	}

	if cfg.MasterSecret == "" {
		return Config{}, fmt.Errorf("MASTER_SECRET must be set")
	}

	// Postgres and Redis are mandatory outside development; in dev the
	// server falls back to in-memory stores and unthrottled logins.
	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the app runs in a development-like environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
