package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port            string
	FrontendOrigins string

	// Database: Postgres DSN/URL when set, SQLite file otherwise
	DatabaseURL string
	SQLitePath  string

	// JWT
	SecretKey        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Startup admin seed
	AdminEmail    string
	AdminPassword string

	// Uploads
	StaticRoot    string
	MaxUploadSize int64

	// SMTP relay
	SMTPServer     string
	SMTPPort       int
	EmailUser      string
	EmailPassword  string
	EmailDefaultTo string

	// INUMET alert feed
	InumetBaseURL      string
	SignalMaxAge       time.Duration
	CerroGeoJSONURL    string
	CerroShapeFile     string
	InumetFetchTimeout time.Duration

	// System log retention
	LogRetention time.Duration
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		FrontendOrigins: getEnv("FRONTEND_ORIGINS", "http://localhost:5173,http://localhost:3000"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", filepath.Join("database", "app.db")),

		SecretKey:        getEnv("SECRET_KEY", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "12h")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "720h")),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@cerrolargo.gub.uy"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		StaticRoot:    getEnv("STATIC_ROOT", "static"),
		MaxUploadSize: 16 * 1024 * 1024,

		SMTPServer:     getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:       parseInt(getEnv("SMTP_PORT", "587"), 587),
		EmailUser:      getEnv("EMAIL_USER", ""),
		EmailPassword:  getEnv("EMAIL_PASSWORD", ""),
		EmailDefaultTo: getEnv("EMAIL_DEFAULT_TO", ""),

		InumetBaseURL:      getEnv("INUMET_BASE_URL", "https://w2b.inumet.gub.uy/oapi"),
		SignalMaxAge:       parseDuration(getEnv("INUMET_SIGNAL_MAX_AGE_HOURS", "12") + "h"),
		CerroGeoJSONURL:    getEnv("CERRO_GEOJSON_URL", ""),
		CerroShapeFile:     getEnv("CERRO_SHAPE_FILE", ""),
		InumetFetchTimeout: parseDuration(getEnv("INUMET_FETCH_TIMEOUT", "15s")),

		LogRetention: time.Duration(parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30)) * 24 * time.Hour,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 12 * time.Hour
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
