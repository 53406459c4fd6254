// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel slog.Level

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int
	CacheTTL       time.Duration

	// Template sources
	ThemeDir   string
	PluginsDir string
	ThemeWatch bool
	SiteName   string

	// Tracing: "" disables export, "stdout" pretty-prints spans and
	// "otlp" sends them to TraceEndpoint over gRPC.
	TraceExporter string
	TraceEndpoint string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode or a value cannot be parsed.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "blockpress"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "blockpress"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		ThemeDir:   envOrDefault("THEME_DIR", "themes/default"),
		PluginsDir: envOrDefault("PLUGINS_DIR", "plugins"),
		SiteName:   envOrDefault("SITE_NAME", "BlockPress"),

		TraceExporter: os.Getenv("TRACE_EXPORTER"),
		TraceEndpoint: envOrDefault("TRACE_ENDPOINT", "localhost:4317"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(envOrDefault("APP_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("APP_LOG_LEVEL: %w", err)
	}

	ttl, err := time.ParseDuration(envOrDefault("CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	db, err := strconv.Atoi(envOrDefault("VALKEY_DB", "0"))
	if err != nil || db < 0 {
		return nil, fmt.Errorf("VALKEY_DB: invalid database index %q", os.Getenv("VALKEY_DB"))
	}
	cfg.ValkeyDB = db

	watch, err := strconv.ParseBool(envOrDefault("THEME_WATCH", strconv.FormatBool(cfg.IsDev())))
	if err != nil {
		return nil, fmt.Errorf("THEME_WATCH: %w", err)
	}
	cfg.ThemeWatch = watch

	switch cfg.TraceExporter {
	case "", "stdout", "otlp":
	default:
		return nil, fmt.Errorf("TRACE_EXPORTER: unknown exporter %q", cfg.TraceExporter)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return net.JoinHostPort(c.ValkeyHost, c.ValkeyPort)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
