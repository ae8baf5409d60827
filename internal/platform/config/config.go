// Package config provides the process-wide configuration loaded at startup.
package config

import (
	"os"
	"strings"
)

// Config holds all environment-derived settings.
// It is loaded once in main and injected into the components that need it;
// nothing re-reads the environment per request.
type Config struct {
	Env  string // "production" or "development"
	Port string

	// Database
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	// Cloud SQL unix socket instance name; takes precedence over host/port when set.
	InstanceConnectionName string
	RunMigrations          bool

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Auth
	JWTSecret      string
	AdminEmail     string
	AdminPassword  string
	GoogleClientID string

	// HTTP
	AllowedOrigins []string
	UploadDir      string
}

// defaultDevOrigins はローカルフロントエンド開発用の許可オリジンです。
var defaultDevOrigins = []string{
	"http://localhost:5500",
	"http://127.0.0.1:5500",
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// Load reads the configuration from environment variables.
func Load() Config {
	cfg := Config{
		Env:                    getenv("APP_ENV", "development"),
		Port:                   getenv("PORT", "8080"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBHost:                 os.Getenv("DB_HOST"),
		DBPort:                 getenv("DB_PORT", "5432"),
		DBName:                 os.Getenv("DB_NAME"),
		InstanceConnectionName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		RunMigrations:          os.Getenv("RUN_MIGRATIONS") == "true",
		RedisHost:              os.Getenv("REDIS_HOST"),
		RedisPort:              getenv("REDIS_PORT", "6379"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		AdminEmail:             os.Getenv("ADMIN_EMAIL"),
		AdminPassword:          os.Getenv("ADMIN_PASSWORD"),
		GoogleClientID:         os.Getenv("GOOGLE_CLIENT_ID"),
		UploadDir:              getenv("UPLOAD_DIR", "uploads"),
	}

	// 本番はALLOWED_ORIGINSのカンマ区切りリストのみ許可。
	// 開発時はローカルホスト各ポートを追加する。
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	if !cfg.IsProduction() {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, defaultDevOrigins...)
	}

	return cfg
}

// IsProduction reports whether the server runs in production mode.
// Secure / SameSite=None cookies are only used in production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
