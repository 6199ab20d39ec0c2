package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Port            string
	MongoDBURI      string
	MongoDBPassword string
	MongoDBDatabase string
	Environment     string
	LogLevel        string
	AllowedOrigins  []string
	AdminJWTSecret  string
	AdminJWKSURL    string
	CloudinaryURL   string
	RabbitMQURL     string
	BookingExchange string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "devevents"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		AllowedOrigins:  splitList(getEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
		AdminJWTSecret:  os.Getenv("ADMIN_JWT_SECRET"),
		AdminJWKSURL:    os.Getenv("ADMIN_JWKS_URL"),
		CloudinaryURL:   os.Getenv("CLOUDINARY_URL"),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),
		BookingExchange: getEnvWithDefault("BOOKING_EXCHANGE", "bookings"),
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// SlogLevel maps LOG_LEVEL (debug, info, warn, error) to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AdminEnabled reports whether admin write routes can verify tokens.
func (c *Config) AdminEnabled() bool {
	return c.AdminJWTSecret != "" || c.AdminJWKSURL != ""
}
