package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName    string
	AppEnv     string
	AppURL     string
	Port       string
	PublicPath string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Auth
	LoginCodeExpiry time.Duration
	TokenExpiry     time.Duration

	// Sharing
	ShareDomain     string // Optional: empty falls back to the request origin
	ShareLinkExpiry time.Duration

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:    envString("APP_NAME", "Birthday Book"),
		AppEnv:     envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:     envRequired("APP_URL"), // Required: canonical base URL of the deployment
		Port:       envString("PORT", "8000"),
		PublicPath: envString("PUBLIC_PATH", "public"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/birthday_book.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Auth
		LoginCodeExpiry: envDuration("LOGIN_CODE_EXPIRY", 5*time.Minute),
		TokenExpiry:     envDuration("TOKEN_EXPIRY", 1*time.Hour),

		// Sharing
		ShareDomain:     envString("SHARE_DOMAIN", ""),
		ShareLinkExpiry: envDuration("SHARE_LINK_EXPIRY", 30*24*time.Hour),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production
// deployments. Development lets email fall back to log mode for local testing.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
